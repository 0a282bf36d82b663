package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/config"
	"github.com/ERIC-757875/TutorHub/internal/model"
	apperrors "github.com/ERIC-757875/TutorHub/pkg/errors"
)

// writeSheet 在临时目录生成 xlsx，rows[0] 为表头
func writeSheet(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellName, &row))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func newTestRepo(cfg config.DataConfig) TutorRepository {
	if cfg.Schema == "" {
		cfg.Schema = "auto"
	}
	return NewExcelTutorRepo(cfg, zap.NewNop())
}

func TestLoad_SourceMissing(t *testing.T) {
	repo := newTestRepo(config.DataConfig{Path: filepath.Join(t.TempDir(), "nope.xlsx")})

	col, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.True(t, col.SourceMissing)
	require.Zero(t, col.Len())
}

func TestLoad_PricingVariant(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"Name", "Subject", "University", "Gender", "Price", "Tags", "Description", "Remark"},
		{"张伟", "数学", "北京大学", "男", 200, "奥数金牌", "拥有5年奥数辅导经验..."},
		{"", "", "", "", "", "", ""},
		{"Emily", "雅思", "UC Berkeley", "女", 400.5, "托福115", "美本申请专家..."},
	})

	col, err := newTestRepo(config.DataConfig{Path: path}).Load(context.Background())
	require.NoError(t, err)
	require.False(t, col.SourceMissing)
	require.Equal(t, "pricing", col.Variant.Name)
	require.Len(t, col.Records, 2, "全空行应被跳过")

	first := col.Records[0]
	require.Equal(t, "张伟", first.Name)
	require.Equal(t, "数学", first.Subjects)
	require.NotNil(t, first.Price)
	require.InDelta(t, 200.0, *first.Price, 1e-9)
	require.Equal(t, 2, first.Row)

	require.Equal(t, 4, col.Records[1].Row)
	require.InDelta(t, 400.5, *col.Records[1].Price, 1e-9)
}

func TestLoad_ProfileVariantWithOptionalBlanks(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"Name", "Gender", "Subjects", "University", "Major", "Grade", "Hometown", "Age", "Advantage", "Experience"},
		{"王强", "男", "高中物理", "清华大学", "工程物理", "大二", "湖北武汉", 20, "物理竞赛省一", "暑期辅导"},
		{"李娜", "女", "英语口语", "复旦大学", "", "研一", "", "", "雅思 8.5", ""},
	})

	col, err := newTestRepo(config.DataConfig{Path: path}).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "profile", col.Variant.Name)
	require.Len(t, col.Records, 2)
	require.Equal(t, 20, *col.Records[0].Age)
	require.Nil(t, col.Records[1].Age)
	require.Empty(t, col.Records[1].Major)
}

func TestLoad_FormattedNumberReadsRawValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	f := excelize.NewFile()
	header := []interface{}{"Name", "Subject", "University", "Gender", "Price", "Tags", "Description"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	row := []interface{}{"张伟", "数学", "北京大学", "男", 1200, "奥数金牌", "..."}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row))

	// 千分位格式，界面上显示为 1,200
	style, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "E2", "E2", style))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	col, err := newTestRepo(config.DataConfig{Path: path}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, col.Records, 1)
	require.NotNil(t, col.Records[0].Price)
	require.InDelta(t, 1200.0, *col.Records[0].Price, 1e-9)
}

func TestLoad_ProfileVariantWithPriceColumn(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"Name", "Gender", "Subjects", "University", "Major", "Grade", "Hometown", "Age", "Advantage", "Experience", "Price"},
		{"王强", "男", "高中物理", "清华大学", "工程物理", "大二", "湖北武汉", 20, "物理竞赛省一", "暑期辅导", 200},
		{"李娜", "女", "英语口语", "复旦大学", "", "研一", "", "", "雅思 8.5", "", ""},
	})

	col, err := newTestRepo(config.DataConfig{Path: path}).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "profile", col.Variant.Name)
	require.Len(t, col.Records, 2)
	require.NotNil(t, col.Records[0].Price)
	require.InDelta(t, 200.0, *col.Records[0].Price, 1e-9)
	require.Nil(t, col.Records[1].Price)
}

func TestLoad_ProfileVariantInvalidPrice(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"Name", "Gender", "Subjects", "University", "Major", "Grade", "Hometown", "Age", "Advantage", "Experience", "Price"},
		{"王强", "男", "高中物理", "清华大学", "工程物理", "大二", "湖北武汉", 20, "物理竞赛省一", "暑期辅导", "面议"},
	})

	_, err := newTestRepo(config.DataConfig{Path: path}).Load(context.Background())
	var ri *apperrors.RecordInvalidError
	require.True(t, errors.As(err, &ri), "期望 RecordInvalidError，实际 %v", err)
	require.Equal(t, "Price", ri.Field)
}

func TestWriteWorkbook_KeepsFilledOptionalColumns(t *testing.T) {
	price := 180.0
	records := SampleRecords(model.VariantProfile)
	records[0].Price = &price

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, WriteWorkbookFile(path, model.VariantProfile, records))

	col, err := newTestRepo(config.DataConfig{Path: path}).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "profile", col.Variant.Name)
	require.NotNil(t, col.Records[0].Price)
	require.InDelta(t, 180.0, *col.Records[0].Price, 1e-9)
	require.Nil(t, col.Records[1].Price)
}

func TestLoad_SchemaMismatch(t *testing.T) {
	// "Subjects" 拼成了 "Subject"，且缺少 Price：两种结构都不完整
	path := writeSheet(t, [][]interface{}{
		{"Name", "Gender", "Subject", "University", "Tags", "Description"},
		{"张伟", "男", "数学", "北京大学", "奥数金牌", "..."},
	})

	_, err := newTestRepo(config.DataConfig{Path: path}).Load(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperrors.ErrSchemaMismatch))

	var sm *apperrors.SchemaMismatchError
	require.True(t, errors.As(err, &sm))
	require.Equal(t, "pricing", sm.Variant)
	require.Equal(t, []string{"Price"}, sm.Missing)
}

func TestLoad_ExplicitSchemaMismatch(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"Name", "Subject", "University", "Gender", "Price", "Tags", "Description"},
		{"张伟", "数学", "北京大学", "男", 200, "奥数金牌", "..."},
	})

	_, err := newTestRepo(config.DataConfig{Path: path, Schema: "profile"}).Load(context.Background())
	var sm *apperrors.SchemaMismatchError
	require.True(t, errors.As(err, &sm))
	require.Equal(t, "profile", sm.Variant)
	require.Contains(t, sm.Missing, "Subjects")
}

func TestLoad_ConfiguredSearchFieldTypo(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"Name", "Subject", "University", "Gender", "Price", "Tags", "Description"},
		{"张伟", "数学", "北京大学", "男", 200, "奥数金牌", "..."},
	})

	_, err := newTestRepo(config.DataConfig{Path: path, SearchableFields: []string{"Subjects"}}).Load(context.Background())
	require.ErrorIs(t, err, apperrors.ErrSchemaMismatch)
}

func TestLoad_EmptyWorkbook(t *testing.T) {
	path := writeSheet(t, nil)

	_, err := newTestRepo(config.DataConfig{Path: path}).Load(context.Background())
	require.ErrorIs(t, err, apperrors.ErrSchemaMismatch)
}

func TestLoad_RecordInvalid(t *testing.T) {
	tests := []struct {
		name  string
		row   []interface{}
		field string
	}{
		{"价格不是数字", []interface{}{"张伟", "数学", "北京大学", "男", "面议", "x", "y"}, "Price"},
		{"价格为负", []interface{}{"张伟", "数学", "北京大学", "男", -1, "x", "y"}, "Price"},
		{"缺少姓名", []interface{}{"", "数学", "北京大学", "男", 200, "x", "y"}, "Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSheet(t, [][]interface{}{
				{"Name", "Subject", "University", "Gender", "Price", "Tags", "Description"},
				tt.row,
			})

			_, err := newTestRepo(config.DataConfig{Path: path}).Load(context.Background())
			var ri *apperrors.RecordInvalidError
			require.True(t, errors.As(err, &ri), "期望 RecordInvalidError，实际 %v", err)
			require.Equal(t, 2, ri.Row)
			require.Equal(t, tt.field, ri.Field)
		})
	}
}

func TestLoad_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := newTestRepo(config.DataConfig{Path: path}).Load(context.Background())
	require.Error(t, err)
	require.False(t, apperrors.IsDataError(err))
}

func TestWriteWorkbook_RoundTrip(t *testing.T) {
	for _, v := range model.Variants() {
		t.Run(v.Name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.xlsx")
			want := SampleRecords(v)
			require.NoError(t, WriteWorkbookFile(path, v, want))

			col, err := newTestRepo(config.DataConfig{Path: path, Schema: v.Name}).Load(context.Background())
			require.NoError(t, err)
			require.Len(t, col.Records, len(want))
			for i := range want {
				require.Equal(t, want[i].Name, col.Records[i].Name)
				require.Equal(t, want[i].Subjects, col.Records[i].Subjects)
				require.Equal(t, want[i].University, col.Records[i].University)
			}
		})
	}
}

// ── 缓存 ──

type countingRepo struct {
	loads atomic.Int32
	err   error
}

func (c *countingRepo) Load(_ context.Context) (*model.Collection, error) {
	c.loads.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &model.Collection{Variant: model.VariantPricing, Source: "mem"}, nil
}

func (c *countingRepo) Invalidate() {}

func TestCachedTutorRepo(t *testing.T) {
	inner := &countingRepo{}
	repo := NewCachedTutorRepo(inner, 0, zap.NewNop())
	ctx := context.Background()

	first, err := repo.Load(ctx)
	require.NoError(t, err)
	second, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.EqualValues(t, 1, inner.loads.Load())

	repo.Invalidate()
	_, err = repo.Load(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, inner.loads.Load())
}

func TestCachedTutorRepo_TTL(t *testing.T) {
	inner := &countingRepo{}
	repo := NewCachedTutorRepo(inner, time.Minute, zap.NewNop())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = repo.Load(ctx)
	now = now.Add(30 * time.Second)
	_, _ = repo.Load(ctx)
	require.EqualValues(t, 1, inner.loads.Load())

	now = now.Add(31 * time.Second)
	_, _ = repo.Load(ctx)
	require.EqualValues(t, 2, inner.loads.Load())
}

func TestCachedTutorRepo_ErrorsNotCached(t *testing.T) {
	inner := &countingRepo{err: &apperrors.SchemaMismatchError{Variant: "pricing", Missing: []string{"Price"}}}
	repo := NewCachedTutorRepo(inner, 0, zap.NewNop())

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, apperrors.ErrSchemaMismatch)

	inner.err = nil
	col, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, col)
	require.EqualValues(t, 2, inner.loads.Load())
}
