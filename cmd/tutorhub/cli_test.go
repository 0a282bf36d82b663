package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ERIC-757875/TutorHub/config"
	apperrors "github.com/ERIC-757875/TutorHub/pkg/errors"
)

func TestSeedThenCheck(t *testing.T) {
	for _, variant := range []string{"pricing", "profile"} {
		t.Run(variant, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tutors.xlsx")

			var out bytes.Buffer
			if err := seed(path, variant, false, &out); err != nil {
				t.Fatalf("seed 失败: %v", err)
			}
			if !strings.Contains(out.String(), "4 位老师") {
				t.Errorf("unexpected seed output: %q", out.String())
			}

			out.Reset()
			cfg := config.DataConfig{Path: path, Schema: "auto"}
			if err := checkData(context.Background(), cfg, zap.NewNop(), &out); err != nil {
				t.Fatalf("check 失败: %v", err)
			}
			if !strings.Contains(out.String(), "表结构: "+variant) || !strings.Contains(out.String(), "老师人数: 4") {
				t.Errorf("unexpected check output: %q", out.String())
			}
		})
	}
}

func TestSeed_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tutors.xlsx")
	var out bytes.Buffer

	if err := seed(path, "pricing", false, &out); err != nil {
		t.Fatalf("seed 失败: %v", err)
	}
	if err := seed(path, "pricing", false, &out); err == nil {
		t.Error("已存在的文件不应被覆盖")
	}
	if err := seed(path, "profile", true, &out); err != nil {
		t.Errorf("--force 应覆盖: %v", err)
	}
}

func TestSeed_UnknownVariant(t *testing.T) {
	if err := seed(filepath.Join(t.TempDir(), "x.xlsx"), "calendar", false, &bytes.Buffer{}); err == nil {
		t.Error("未知表结构应返回错误")
	}
}

func TestCheck_Failures(t *testing.T) {
	dir := t.TempDir()

	err := checkData(context.Background(), config.DataConfig{Path: filepath.Join(dir, "missing.xlsx"), Schema: "auto"}, zap.NewNop(), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "seed") {
		t.Errorf("缺少文件时应提示 seed，实际 %v", err)
	}

	path := filepath.Join(dir, "pricing.xlsx")
	if err := seed(path, "pricing", false, &bytes.Buffer{}); err != nil {
		t.Fatalf("seed 失败: %v", err)
	}
	err = checkData(context.Background(), config.DataConfig{Path: path, Schema: "profile"}, zap.NewNop(), &bytes.Buffer{})
	if !errors.Is(err, apperrors.ErrSchemaMismatch) {
		t.Errorf("期望 SchemaMismatch，实际 %v", err)
	}
}

func TestHashSecretCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	if err := hashSecretCmd.RunE(cmd, []string{"888888"}); err != nil {
		t.Fatalf("hash-secret 失败: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("888888")); err != nil {
		t.Errorf("输出的哈希无法校验: %v", err)
	}
}
