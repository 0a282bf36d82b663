package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/config"
	"github.com/ERIC-757875/TutorHub/internal/repository"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "检查数据文件能否被正确读取",
	Long:  `读取一次数据文件，输出识别出的表结构和行数；表头或数据有误时以非零状态退出。`,
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	return checkData(cmd.Context(), cfg.Data, logger, cmd.OutOrStdout())
}

func checkData(ctx context.Context, cfg config.DataConfig, logger *zap.Logger, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	col, err := repository.NewExcelTutorRepo(cfg, logger).Load(ctx)
	if err != nil {
		return err
	}
	if col.SourceMissing {
		return fmt.Errorf("数据文件不存在: %s（可运行 tutorhub seed 生成示例表格）", cfg.Path)
	}

	fmt.Fprintf(out, "文件: %s\n", col.Source)
	fmt.Fprintf(out, "表结构: %s（%s）\n", col.Variant.Name, col.Variant.Title)
	fmt.Fprintf(out, "老师人数: %d\n", col.Len())
	return nil
}
