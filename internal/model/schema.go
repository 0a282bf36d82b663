package model

import (
	apperrors "github.com/ERIC-757875/TutorHub/pkg/errors"
)

// CardPart 卡片中的一个字段片段
type CardPart struct {
	Field  Field
	Prefix string
	Suffix string
}

// CardLine 卡片正文中的一行，由若干片段以 Sep 连接，空片段跳过
type CardLine struct {
	Label    string
	Parts    []CardPart
	Sep      string
	Emphasis bool
}

// CardSection 可展开的长文本区域
type CardSection struct {
	Title string
	Field Field
}

// CardSpec 卡片展示哪些字段
type CardSpec struct {
	Headline *CardPart
	Lines    []CardLine
	Sections []CardSection
}

// SchemaVariant 一种已知的表结构
// 加载时选定一次，之后筛选与展示只能引用其声明的列
// Optional 中的列不参与识别，表头里有就读取
type SchemaVariant struct {
	Name       string
	Title      string
	Required   []Field
	Optional   []Field
	Filterable []Field
	Searchable []Field
	Card       CardSpec
}

var (
	// VariantPricing 价格型：姓名/科目/学校/性别/价格/标签/简介
	VariantPricing = &SchemaVariant{
		Name:       "pricing",
		Title:      "价格型",
		Required:   []Field{FieldName, FieldSubject, FieldUniversity, FieldGender, FieldPrice, FieldTags, FieldDescription},
		Filterable: []Field{FieldGender, FieldUniversity, FieldSubject},
		Searchable: []Field{FieldSubject, FieldTags, FieldName},
		Card: CardSpec{
			Headline: &CardPart{Field: FieldPrice, Prefix: "¥", Suffix: "/h"},
			Lines: []CardLine{
				{Parts: []CardPart{{Field: FieldUniversity}}, Emphasis: true},
				{Label: "📘 可教科目", Parts: []CardPart{{Field: FieldSubject}}},
				{Label: "🏷️ 标签", Parts: []CardPart{{Field: FieldTags}}},
			},
			Sections: []CardSection{
				{Title: "📄 查看简介", Field: FieldDescription},
			},
		},
	}

	// VariantProfile 履历型：学校/专业/年级/籍贯/年龄/优势/经验
	VariantProfile = &SchemaVariant{
		Name:  "profile",
		Title: "履历型",
		Required: []Field{
			FieldName, FieldGender, FieldSubjects, FieldUniversity, FieldMajor,
			FieldGrade, FieldHometown, FieldAge, FieldAdvantage, FieldExperience,
		},
		Optional:   []Field{FieldPrice},
		Filterable: []Field{FieldGender, FieldUniversity, FieldGrade},
		Searchable: []Field{FieldSubjects, FieldAdvantage, FieldName},
		Card: CardSpec{
			Headline: &CardPart{Field: FieldPrice, Prefix: "¥", Suffix: "/h"},
			Lines: []CardLine{
				{Parts: []CardPart{{Field: FieldUniversity}, {Field: FieldMajor}}, Sep: " · ", Emphasis: true},
				{Parts: []CardPart{{Field: FieldGrade}, {Field: FieldHometown, Prefix: "籍贯: "}, {Field: FieldAge, Suffix: "岁"}}, Sep: " | "},
				{Label: "📘 可教科目", Parts: []CardPart{{Field: FieldSubjects}}},
			},
			Sections: []CardSection{
				{Title: "✨ 查看个人优势", Field: FieldAdvantage},
				{Title: "📖 查看家教经验", Field: FieldExperience},
			},
		},
	}
)

// Variants 按自动识别的优先顺序返回全部表结构
func Variants() []*SchemaVariant {
	return []*SchemaVariant{VariantPricing, VariantProfile}
}

// VariantByName 按名称查找表结构
func VariantByName(name string) (*SchemaVariant, bool) {
	for _, v := range Variants() {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// HasField 表结构是否声明了该列，含可选列
func (v *SchemaVariant) HasField(f Field) bool {
	return containsField(v.Required, f) || containsField(v.Optional, f)
}

// IsOptional 该列是否为可选列
func (v *SchemaVariant) IsOptional(f Field) bool {
	return containsField(v.Optional, f)
}

// IsFilterable 该列是否允许做成员筛选
func (v *SchemaVariant) IsFilterable(f Field) bool {
	return containsField(v.Filterable, f)
}

// MissingColumns 返回表头中缺失的必需列，保持 Required 中的顺序
func (v *SchemaVariant) MissingColumns(header map[Field]int) []string {
	var missing []string
	for _, f := range v.Required {
		if _, ok := header[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	return missing
}

// WithFields 返回一份覆盖了可筛选/可搜索列的副本，参数为空时保持默认
// 引用本表结构中不存在的列会返回 SchemaMismatchError
func (v *SchemaVariant) WithFields(filterable, searchable []string) (*SchemaVariant, error) {
	out := *v

	if len(filterable) > 0 {
		fields, err := v.resolveFields(filterable, "data.filter_fields")
		if err != nil {
			return nil, err
		}
		out.Filterable = fields
	}
	if len(searchable) > 0 {
		fields, err := v.resolveFields(searchable, "data.searchable_fields")
		if err != nil {
			return nil, err
		}
		out.Searchable = fields
	}

	return &out, nil
}

func (v *SchemaVariant) resolveFields(names []string, context string) ([]Field, error) {
	var (
		fields  []Field
		missing []string
	)
	for _, name := range names {
		f, ok := ParseField(name)
		if !ok || !v.HasField(f) {
			missing = append(missing, name)
			continue
		}
		fields = append(fields, f)
	}
	if len(missing) > 0 {
		return nil, &apperrors.SchemaMismatchError{Variant: v.Name, Missing: missing, Context: context}
	}
	return fields, nil
}

func containsField(fields []Field, f Field) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}
