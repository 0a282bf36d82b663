package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/config"
	"github.com/ERIC-757875/TutorHub/internal/dto"
	"github.com/ERIC-757875/TutorHub/internal/model"
	"github.com/ERIC-757875/TutorHub/internal/repository"
)

// ── 老师资料模块业务错误 ──

var (
	ErrInvalidFilterField = errors.New("筛选条件引用了不可筛选的列")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// Query 来自请求的原始筛选参数
//
// Applied=false（首次打开页面）时未出现的列不限；
// Applied=true（提交过筛选表单）时未出现的可筛选列视为一个都没选。
type Query struct {
	Membership map[model.Field][]string
	Text       string
	Applied    bool
}

// TutorService 老师资料业务接口：加载 → 筛选 → 排版
type TutorService interface {
	List(ctx context.Context, q Query) (*dto.TutorListResponse, error)
	Gallery(ctx context.Context, q Query) (*dto.GalleryPage, error)
	Options(ctx context.Context) (*dto.FilterOptionsResponse, error)
	Export(ctx context.Context, q Query) (*bytes.Buffer, string, error)
	Refresh(ctx context.Context) (*dto.RefreshResponse, error)
}

type tutorService struct {
	repo   *repository.Repository
	ui     config.UIConfig
	logger *zap.Logger
}

// NewTutorService 创建 TutorService 实例
func NewTutorService(repo *repository.Repository, ui config.UIConfig, logger *zap.Logger) TutorService {
	return &tutorService{repo: repo, ui: ui, logger: logger}
}

// run 执行一次完整的加载与筛选
func (s *tutorService) run(ctx context.Context, q Query) (*model.Collection, []model.TutorRecord, error) {
	col, err := s.repo.Tutor.Load(ctx)
	if err != nil {
		s.logger.Error("加载老师数据失败", zap.Error(err))
		return nil, nil, err
	}
	if col.Variant == nil {
		return col, []model.TutorRecord{}, nil
	}

	criteria, err := resolveCriteria(col.Variant, q)
	if err != nil {
		return nil, nil, err
	}

	records, err := Filter(col.Variant, col.Records, criteria)
	if err != nil {
		s.logger.Error("筛选失败", zap.Error(err))
		return nil, nil, err
	}
	return col, records, nil
}

// resolveCriteria 将请求参数转换为筛选条件
func resolveCriteria(v *model.SchemaVariant, q Query) (Criteria, error) {
	var unknown []string
	for f := range q.Membership {
		if !v.IsFilterable(f) {
			unknown = append(unknown, f.Param())
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Criteria{}, fmt.Errorf("%w: %s", ErrInvalidFilterField, strings.Join(unknown, ", "))
	}

	c := Criteria{Query: q.Text}
	for _, f := range v.Filterable {
		values, present := q.Membership[f]
		switch {
		case present:
			c.Restrict(f, values...)
		case q.Applied:
			c.Restrict(f)
		}
	}
	return c, nil
}

func (s *tutorService) List(ctx context.Context, q Query) (*dto.TutorListResponse, error) {
	col, records, err := s.run(ctx, q)
	if err != nil {
		return nil, err
	}

	return &dto.TutorListResponse{
		Variant:       variantName(col),
		SourceMissing: col.SourceMissing,
		Total:         len(records),
		List:          BuildCards(col.Variant, records, s.ui.ContactMessage),
	}, nil
}

func (s *tutorService) Gallery(ctx context.Context, q Query) (*dto.GalleryPage, error) {
	col, records, err := s.run(ctx, q)
	if err != nil {
		return nil, err
	}

	options := Options(col.Variant, col.Records)
	selected := make(map[string]map[string]bool, len(options))
	for _, opt := range options {
		values, present := q.Membership[opt.Field]
		if !present && !q.Applied {
			values = opt.Values // 默认全选
		}
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[v] = true
		}
		selected[opt.Param] = set
	}

	return &dto.GalleryPage{
		Title:         s.ui.Title,
		Variant:       variantName(col),
		SourceMissing: col.SourceMissing,
		Total:         len(records),
		Query:         q.Text,
		Options:       options,
		Selected:      selected,
		Grid:          Layout(BuildCards(col.Variant, records, s.ui.ContactMessage), s.ui.Columns),
		LoadedAt:      col.LoadedAt,
	}, nil
}

func (s *tutorService) Options(ctx context.Context) (*dto.FilterOptionsResponse, error) {
	col, err := s.repo.Tutor.Load(ctx)
	if err != nil {
		s.logger.Error("加载老师数据失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.FilterOptionsResponse{
		Variant:       variantName(col),
		SourceMissing: col.SourceMissing,
		Searchable:    []model.Field{},
		Options:       Options(col.Variant, col.Records),
	}
	if col.Variant != nil {
		resp.Searchable = col.Variant.Searchable
	}
	return resp, nil
}

// Export 将当前筛选结果导出为 xlsx，列与数据文件一致
func (s *tutorService) Export(ctx context.Context, q Query) (*bytes.Buffer, string, error) {
	col, records, err := s.run(ctx, q)
	if err != nil {
		return nil, "", err
	}

	v := col.Variant
	if v == nil {
		v = model.VariantPricing
	}

	buf := new(bytes.Buffer)
	if err := repository.WriteWorkbook(buf, v, records); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("家教老师_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// Refresh 丢弃缓存并立即重新加载
func (s *tutorService) Refresh(ctx context.Context) (*dto.RefreshResponse, error) {
	s.repo.Tutor.Invalidate()

	col, err := s.repo.Tutor.Load(ctx)
	if err != nil {
		s.logger.Error("重新加载老师数据失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("老师数据已重新加载", zap.String("variant", variantName(col)), zap.Int("records", col.Len()))
	return &dto.RefreshResponse{
		Variant:       variantName(col),
		SourceMissing: col.SourceMissing,
		Total:         col.Len(),
		LoadedAt:      col.LoadedAt.Format(time.RFC3339),
	}, nil
}

func variantName(col *model.Collection) string {
	if col == nil || col.Variant == nil {
		return ""
	}
	return col.Variant.Name
}
