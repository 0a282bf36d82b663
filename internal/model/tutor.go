package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Field 表头列名，与 Excel 第一行文本完全一致（区分大小写）
type Field string

const (
	FieldName        Field = "Name"
	FieldGender      Field = "Gender"
	FieldSubject     Field = "Subject"
	FieldSubjects    Field = "Subjects"
	FieldUniversity  Field = "University"
	FieldMajor       Field = "Major"
	FieldGrade       Field = "Grade"
	FieldHometown    Field = "Hometown"
	FieldAge         Field = "Age"
	FieldPrice       Field = "Price"
	FieldTags        Field = "Tags"
	FieldAdvantage   Field = "Advantage"
	FieldExperience  Field = "Experience"
	FieldDescription Field = "Description"
)

// AllFields 全部已知列，顺序即导出时的列顺序
var AllFields = []Field{
	FieldName, FieldGender, FieldSubject, FieldSubjects, FieldUniversity,
	FieldMajor, FieldGrade, FieldHometown, FieldAge, FieldPrice, FieldTags,
	FieldAdvantage, FieldExperience, FieldDescription,
}

// ParseField 将列名解析为已知 Field
func ParseField(s string) (Field, bool) {
	s = strings.TrimSpace(s)
	for _, f := range AllFields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Param 查询参数名（小写列名）
func (f Field) Param() string {
	return strings.ToLower(string(f))
}

var fieldLabels = map[Field]string{
	FieldName:        "姓名",
	FieldGender:      "性别",
	FieldSubject:     "科目",
	FieldSubjects:    "科目",
	FieldUniversity:  "学校",
	FieldMajor:       "专业",
	FieldGrade:       "年级",
	FieldHometown:    "籍贯",
	FieldAge:         "年龄",
	FieldPrice:       "价格",
	FieldTags:        "标签",
	FieldAdvantage:   "个人优势",
	FieldExperience:  "家教经验",
	FieldDescription: "简介",
}

// Label 中文展示名
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// Gender 性别分类，仅用于展示标记
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// TutorRecord 一位老师的资料（Excel 中的一行）
// Subject 与 Subjects 两种列名都映射到 Subjects 字段
type TutorRecord struct {
	Row         int      `json:"-"`
	Name        string   `json:"name"        validate:"required"`
	Gender      string   `json:"gender"`
	Subjects    string   `json:"subjects"`
	University  string   `json:"university"`
	Major       string   `json:"major,omitempty"`
	Grade       string   `json:"grade,omitempty"`
	Hometown    string   `json:"hometown,omitempty"`
	Age         *int     `json:"age,omitempty"   validate:"omitempty,gte=0,lte=120"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Tags        string   `json:"tags,omitempty"`
	Advantage   string   `json:"advantage,omitempty"`
	Experience  string   `json:"experience,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Value 返回指定列的展示文本以及该列在本行是否有值
func (r *TutorRecord) Value(f Field) (string, bool) {
	var s string
	switch f {
	case FieldName:
		s = r.Name
	case FieldGender:
		s = r.Gender
	case FieldSubject, FieldSubjects:
		s = r.Subjects
	case FieldUniversity:
		s = r.University
	case FieldMajor:
		s = r.Major
	case FieldGrade:
		s = r.Grade
	case FieldHometown:
		s = r.Hometown
	case FieldAge:
		if r.Age == nil {
			return "", false
		}
		s = strconv.Itoa(*r.Age)
	case FieldPrice:
		if r.Price == nil {
			return "", false
		}
		s = FormatPrice(*r.Price)
	case FieldTags:
		s = r.Tags
	case FieldAdvantage:
		s = r.Advantage
	case FieldExperience:
		s = r.Experience
	case FieldDescription:
		s = r.Description
	}
	return s, s != ""
}

// GenderKind 将原始性别文本归类
func (r *TutorRecord) GenderKind() Gender {
	switch strings.ToLower(strings.TrimSpace(r.Gender)) {
	case "男", "男性", "male", "m":
		return GenderMale
	case "女", "女性", "female", "f":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// FormatPrice 价格展示：整数不带小数位，其余保留两位
func FormatPrice(p float64) string {
	if p == math.Trunc(p) && math.Abs(p) < 1e15 {
		return strconv.FormatFloat(p, 'f', 0, 64)
	}
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// Collection 一次加载得到的只读数据集
type Collection struct {
	Variant       *SchemaVariant
	Records       []TutorRecord
	Source        string
	SourceMissing bool
	LoadedAt      time.Time
}

// Len 记录条数
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}
