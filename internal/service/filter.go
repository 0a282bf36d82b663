package service

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ERIC-757875/TutorHub/internal/dto"
	"github.com/ERIC-757875/TutorHub/internal/model"
	apperrors "github.com/ERIC-757875/TutorHub/pkg/errors"
)

// Criteria 筛选条件
//
//   - Membership: 键不存在表示该列不限；键存在但值为空表示没有任何记录通过
//   - Query: 去掉首尾空白后为空表示不限；否则在可搜索列中做不区分大小写的子串匹配
type Criteria struct {
	Membership map[model.Field][]string
	Query      string
}

// Restrict 设置某列的可选值集合
func (c *Criteria) Restrict(f model.Field, values ...string) {
	if c.Membership == nil {
		c.Membership = make(map[model.Field][]string)
	}
	c.Membership[f] = append([]string{}, values...)
}

// Filter 返回同时满足全部成员筛选与文本查询的记录
// 结果保持输入中的相对顺序，不修改输入切片
//
// 文本查询使用 Unicode 完整大小写折叠（cases.Fold），"math" 可匹配 "Math"，
// 中文不受影响。缺失（空）的字段既不满足成员筛选也不包含任何子串。
func Filter(v *model.SchemaVariant, records []model.TutorRecord, c Criteria) ([]model.TutorRecord, error) {
	out := make([]model.TutorRecord, 0, len(records))
	if v == nil {
		return out, nil
	}

	var unknown []string
	sets := make(map[model.Field]map[string]struct{}, len(c.Membership))
	for f, values := range c.Membership {
		if !v.IsFilterable(f) {
			unknown = append(unknown, string(f))
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, val := range values {
			set[val] = struct{}{}
		}
		sets[f] = set
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &apperrors.SchemaMismatchError{Variant: v.Name, Missing: unknown, Context: "筛选条件"}
	}

	folder := cases.Fold()
	query := folder.String(strings.TrimSpace(c.Query))

	for i := range records {
		rec := &records[i]
		if !matchMembership(rec, sets) {
			continue
		}
		if query != "" && !matchQuery(rec, v.Searchable, query, folder) {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func matchMembership(rec *model.TutorRecord, sets map[model.Field]map[string]struct{}) bool {
	for f, set := range sets {
		val, ok := rec.Value(f)
		if !ok {
			return false
		}
		if _, hit := set[val]; !hit {
			return false
		}
	}
	return true
}

func matchQuery(rec *model.TutorRecord, fields []model.Field, foldedQuery string, folder cases.Caser) bool {
	for _, f := range fields {
		val, ok := rec.Value(f)
		if !ok {
			continue
		}
		if strings.Contains(folder.String(val), foldedQuery) {
			return true
		}
	}
	return false
}

// Options 返回每个可筛选列的去重取值，按首次出现的顺序排列，空值不计入
func Options(v *model.SchemaVariant, records []model.TutorRecord) []dto.FilterOption {
	if v == nil {
		return []dto.FilterOption{}
	}

	opts := make([]dto.FilterOption, 0, len(v.Filterable))
	for _, f := range v.Filterable {
		seen := make(map[string]bool)
		values := []string{}
		for i := range records {
			val, ok := records[i].Value(f)
			if !ok || seen[val] {
				continue
			}
			seen[val] = true
			values = append(values, val)
		}
		opts = append(opts, dto.FilterOption{Field: f, Param: f.Param(), Label: f.Label(), Values: values})
	}
	return opts
}
