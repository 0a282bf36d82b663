package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/ERIC-757875/TutorHub/internal/model"
	"github.com/ERIC-757875/TutorHub/internal/repository"
)

var (
	seedOut     string
	seedVariant string
	seedForce   bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "生成示例数据表格",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return seed(seedOut, seedVariant, seedForce, cmd.OutOrStdout())
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedOut, "out", "o", "data.xlsx", "输出文件路径")
	seedCmd.Flags().StringVar(&seedVariant, "variant", model.VariantPricing.Name, "表结构: pricing | profile")
	seedCmd.Flags().BoolVarP(&seedForce, "force", "f", false, "覆盖已存在的文件")
}

func seed(out, variant string, force bool, w io.Writer) error {
	v, ok := model.VariantByName(variant)
	if !ok {
		return fmt.Errorf("未知表结构 %q", variant)
	}

	if !force {
		if _, err := os.Stat(out); err == nil {
			return fmt.Errorf("%s 已存在，使用 --force 覆盖", out)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	records := repository.SampleRecords(v)
	if err := repository.WriteWorkbookFile(out, v, records); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", out, err)
	}

	fmt.Fprintf(w, "已生成 %s（%s，%d 位老师）\n", out, v.Name, len(records))
	return nil
}
