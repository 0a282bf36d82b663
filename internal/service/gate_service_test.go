package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/config"
	apperrors "github.com/ERIC-757875/TutorHub/pkg/errors"
)

func TestGateService_Authenticate(t *testing.T) {
	svc, err := NewGateService(&config.GateConfig{Enabled: true, Secret: "888888"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewGateService 失败: %v", err)
	}
	ctx := context.Background()

	if err := svc.Authenticate(ctx, "888888"); err != nil {
		t.Errorf("正确密码应通过，实际: %v", err)
	}

	err = svc.Authenticate(ctx, "wrong")
	if !errors.Is(err, apperrors.ErrAuthenticationFailed) {
		t.Fatalf("错误密码应返回 ErrAuthenticationFailed，实际: %v", err)
	}
	if strings.Contains(err.Error(), "888888") {
		t.Error("错误信息不应泄露正确密码")
	}

	if err := svc.Authenticate(ctx, ""); !errors.Is(err, apperrors.ErrAuthenticationFailed) {
		t.Errorf("空密码应被拒绝，实际: %v", err)
	}

	// 拒绝不改变状态：之后正确密码仍然可以通过
	if err := svc.Authenticate(ctx, "888888"); err != nil {
		t.Errorf("拒绝后正确密码仍应通过，实际: %v", err)
	}
}

func TestGateService_SecretHash(t *testing.T) {
	hash, err := HashSecret("correct horse")
	if err != nil {
		t.Fatalf("HashSecret 失败: %v", err)
	}

	svc, err := NewGateService(&config.GateConfig{Enabled: true, Secret: "888888", SecretHash: hash}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewGateService 失败: %v", err)
	}
	if err := svc.Authenticate(context.Background(), "correct horse"); err != nil {
		t.Errorf("哈希对应的密码应通过，实际: %v", err)
	}
	if err := svc.Authenticate(context.Background(), "888888"); err == nil {
		t.Error("配置哈希后明文密码应失效")
	}
}

func TestGateService_InvalidHash(t *testing.T) {
	_, err := NewGateService(&config.GateConfig{Enabled: true, SecretHash: "not-a-hash"}, zap.NewNop())
	if err == nil {
		t.Fatal("非法哈希应返回错误")
	}
}

func TestGateService_Disabled(t *testing.T) {
	svc, err := NewGateService(&config.GateConfig{Enabled: false}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewGateService 失败: %v", err)
	}
	if svc.Enabled() {
		t.Error("应为关闭状态")
	}
	if err := svc.Authenticate(context.Background(), "anything"); err != nil {
		t.Errorf("关闭时任何输入都应通过，实际: %v", err)
	}
}

func TestHashSecret_Empty(t *testing.T) {
	if _, err := HashSecret(""); err == nil {
		t.Error("空密码应返回错误")
	}
}
