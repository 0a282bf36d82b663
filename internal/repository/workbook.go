package repository

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/ERIC-757875/TutorHub/internal/model"
)

// DefaultSheet 写出文件时使用的工作表名
const DefaultSheet = "Sheet1"

// WriteWorkbook 按表结构的列顺序将记录写成 xlsx
// 第一行为表头，列名与 Load 识别的表头一致，写出的文件可被重新加载
func WriteWorkbook(w io.Writer, v *model.SchemaVariant, records []model.TutorRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("创建表头样式失败: %w", err)
	}

	columns := exportColumns(v, records)
	for i, field := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(DefaultSheet, cell(col, 1), string(field))
		f.SetColWidth(DefaultSheet, col, col, columnWidth(field))
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	f.SetCellStyle(DefaultSheet, "A1", cell(lastCol, 1), headerStyle)

	for i := range records {
		rec := &records[i]
		row := i + 2
		for j, field := range columns {
			col, _ := excelize.ColumnNumberToName(j + 1)
			if err := f.SetCellValue(DefaultSheet, cell(col, row), cellValue(rec, field)); err != nil {
				return fmt.Errorf("写入第 %d 行失败: %w", row, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("写入 Excel 失败: %w", err)
	}
	return nil
}

// WriteWorkbookFile 写出到文件路径
func WriteWorkbookFile(path string, v *model.SchemaVariant, records []model.TutorRecord) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	if err := WriteWorkbook(out, v, records); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// exportColumns 必需列之后追加至少有一条记录填写了的可选列
func exportColumns(v *model.SchemaVariant, records []model.TutorRecord) []model.Field {
	columns := append([]model.Field{}, v.Required...)
	for _, f := range v.Optional {
		for i := range records {
			if _, ok := records[i].Value(f); ok {
				columns = append(columns, f)
				break
			}
		}
	}
	return columns
}

// cellValue 数值列保持数值类型，空值写空单元格
func cellValue(rec *model.TutorRecord, f model.Field) interface{} {
	switch f {
	case model.FieldPrice:
		if rec.Price == nil {
			return nil
		}
		return *rec.Price
	case model.FieldAge:
		if rec.Age == nil {
			return nil
		}
		return *rec.Age
	}
	s, _ := rec.Value(f)
	return s
}

func columnWidth(f model.Field) float64 {
	switch f {
	case model.FieldDescription, model.FieldAdvantage, model.FieldExperience:
		return 40
	case model.FieldSubject, model.FieldSubjects, model.FieldUniversity, model.FieldTags:
		return 18
	default:
		return 10
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
