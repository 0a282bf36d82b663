package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/config"
	"github.com/ERIC-757875/TutorHub/internal/model"
	apperrors "github.com/ERIC-757875/TutorHub/pkg/errors"
)

// TutorRepository 老师资料数据访问接口（只读）
type TutorRepository interface {
	// Load 加载全部记录；数据文件不存在时返回 SourceMissing 的空数据集而不是错误
	Load(ctx context.Context) (*model.Collection, error)
	// Invalidate 丢弃缓存，下一次 Load 重新读取文件
	Invalidate()
}

type excelTutorRepo struct {
	cfg      config.DataConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewExcelTutorRepo 创建基于 Excel 文件的 TutorRepository（不带缓存）
func NewExcelTutorRepo(cfg config.DataConfig, logger *zap.Logger) TutorRepository {
	return &excelTutorRepo{
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

func (r *excelTutorRepo) Invalidate() {}

func (r *excelTutorRepo) Load(ctx context.Context) (*model.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(r.cfg.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("数据文件不存在，按空数据集处理", zap.String("path", r.cfg.Path))
			return &model.Collection{Source: r.cfg.Path, SourceMissing: true, LoadedAt: time.Now()}, nil
		}
		return nil, fmt.Errorf("读取数据文件失败: %w", err)
	}

	f, err := excelize.OpenFile(r.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件 %s: %w", r.cfg.Path, err)
	}
	defer f.Close()

	sheetName := r.cfg.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	// 读原始值，避免千分位等数字格式把 1200 变成 "1,200"
	excelRows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("读取工作表 %q 失败: %w", sheetName, err)
	}

	var headerRow []string
	if len(excelRows) > 0 {
		headerRow = excelRows[0]
	}
	header := r.parseHeader(headerRow)

	variant, err := selectVariant(r.cfg.Schema, header)
	if err != nil {
		return nil, err
	}
	variant, err = variant.WithFields(r.cfg.FilterFields, r.cfg.SearchableFields)
	if err != nil {
		return nil, err
	}

	records := make([]model.TutorRecord, 0, len(excelRows))
	for i := 1; i < len(excelRows); i++ {
		rec, blank, err := r.parseRow(i+1, excelRows[i], header, variant)
		if err != nil {
			return nil, err
		}
		if blank {
			continue
		}
		records = append(records, rec)
	}

	r.logger.Info("数据文件加载完成",
		zap.String("path", r.cfg.Path),
		zap.String("sheet", sheetName),
		zap.String("schema", variant.Name),
		zap.Int("records", len(records)),
	)

	return &model.Collection{
		Variant:  variant,
		Records:  records,
		Source:   r.cfg.Path,
		LoadedAt: time.Now(),
	}, nil
}

// parseHeader 解析表头，返回列名 -> 列索引映射；未知列忽略
func (r *excelTutorRepo) parseHeader(row []string) map[model.Field]int {
	idx := make(map[model.Field]int, len(row))
	for i, h := range row {
		f, ok := model.ParseField(h)
		if !ok {
			if strings.TrimSpace(h) != "" {
				r.logger.Debug("忽略未知列", zap.String("column", h))
			}
			continue
		}
		if _, dup := idx[f]; dup {
			r.logger.Warn("表头存在重复列，使用第一列", zap.String("column", h))
			continue
		}
		idx[f] = i
	}
	return idx
}

// selectVariant 按配置选定表结构；auto 时取第一个表头完整的结构
func selectVariant(schema string, header map[model.Field]int) (*model.SchemaVariant, error) {
	if schema != "" && schema != "auto" {
		v, ok := model.VariantByName(schema)
		if !ok {
			return nil, fmt.Errorf("未知的表结构: %s", schema)
		}
		if missing := v.MissingColumns(header); len(missing) > 0 {
			return nil, &apperrors.SchemaMismatchError{Variant: v.Name, Missing: missing}
		}
		return v, nil
	}

	var (
		closest     *model.SchemaVariant
		closestMiss []string
	)
	for _, v := range model.Variants() {
		missing := v.MissingColumns(header)
		if len(missing) == 0 {
			return v, nil
		}
		if closest == nil || len(missing) < len(closestMiss) {
			closest, closestMiss = v, missing
		}
	}
	return nil, &apperrors.SchemaMismatchError{Variant: closest.Name, Missing: closestMiss}
}

// parseRow 解析一行数据；全空行返回 blank=true
func (r *excelTutorRepo) parseRow(rowNum int, row []string, header map[model.Field]int, v *model.SchemaVariant) (model.TutorRecord, bool, error) {
	cell := func(f model.Field) string {
		i, ok := header[f]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	blank := true
	for _, f := range v.Required {
		if cell(f) != "" {
			blank = false
			break
		}
	}
	if blank {
		return model.TutorRecord{}, true, nil
	}

	rec := model.TutorRecord{
		Row:         rowNum,
		Name:        cell(model.FieldName),
		Gender:      cell(model.FieldGender),
		University:  cell(model.FieldUniversity),
		Major:       cell(model.FieldMajor),
		Grade:       cell(model.FieldGrade),
		Hometown:    cell(model.FieldHometown),
		Tags:        cell(model.FieldTags),
		Advantage:   cell(model.FieldAdvantage),
		Experience:  cell(model.FieldExperience),
		Description: cell(model.FieldDescription),
	}
	if v.HasField(model.FieldSubjects) {
		rec.Subjects = cell(model.FieldSubjects)
	} else {
		rec.Subjects = cell(model.FieldSubject)
	}

	if s := cell(model.FieldPrice); s != "" && v.HasField(model.FieldPrice) {
		p, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
			return rec, false, &apperrors.RecordInvalidError{Row: rowNum, Field: string(model.FieldPrice), Reason: fmt.Sprintf("%q 不是数字", s)}
		}
		rec.Price = &p
	}
	if s := cell(model.FieldAge); s != "" && v.HasField(model.FieldAge) {
		a, err := strconv.ParseFloat(s, 64)
		if err != nil || a != math.Trunc(a) {
			return rec, false, &apperrors.RecordInvalidError{Row: rowNum, Field: string(model.FieldAge), Reason: fmt.Sprintf("%q 不是整数", s)}
		}
		age := int(a)
		rec.Age = &age
	}

	if err := r.validate.Struct(&rec); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return rec, false, &apperrors.RecordInvalidError{Row: rowNum, Field: ve[0].Field(), Reason: "不满足约束 " + ve[0].Tag()}
		}
		return rec, false, fmt.Errorf("校验第 %d 行失败: %w", rowNum, err)
	}

	return rec, false, nil
}
