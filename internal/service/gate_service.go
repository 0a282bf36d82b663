package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ERIC-757875/TutorHub/config"
	apperrors "github.com/ERIC-757875/TutorHub/pkg/errors"
)

// GateService 访问密码校验
//
// 设计说明：
//   - 全站共用一个密码，没有用户名，也不签发 Token
//   - 明文密码启动时即哈希，运行期间只保留 bcrypt 哈希
//   - 校验失败只返回通用错误，不透露任何差异信息
type GateService interface {
	// Enabled 是否启用访问密码
	Enabled() bool
	// Authenticate 校验密码；nil 表示通过，否则返回 ErrAuthenticationFailed
	Authenticate(ctx context.Context, secret string) error
}

type gateService struct {
	enabled bool
	hash    []byte
	logger  *zap.Logger
}

// NewGateService 创建 GateService 实例
func NewGateService(cfg *config.GateConfig, logger *zap.Logger) (GateService, error) {
	if !cfg.Enabled {
		logger.Warn("访问密码已关闭，所有访问者均可查看数据")
		return &gateService{logger: logger}, nil
	}

	var hash []byte
	if cfg.SecretHash != "" {
		hash = []byte(cfg.SecretHash)
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, fmt.Errorf("gate.secret_hash 不是合法的 bcrypt 哈希: %w", err)
		}
	} else {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("访问密码哈希失败: %w", err)
		}
	}

	if cfg.UsesDefaultSecret() {
		logger.Warn("正在使用默认访问密码 888888，该密码不安全，请通过 gate.secret_hash 或 TUTORHUB_GATE_SECRET 修改")
	}

	return &gateService{enabled: true, hash: hash, logger: logger}, nil
}

func (s *gateService) Enabled() bool {
	return s.enabled
}

func (s *gateService) Authenticate(_ context.Context, secret string) error {
	if !s.enabled {
		return nil
	}
	if secret == "" {
		return apperrors.ErrAuthenticationFailed
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(secret)); err != nil {
		s.logger.Info("访问密码校验失败")
		return apperrors.ErrAuthenticationFailed
	}
	return nil
}

// HashSecret 生成可写入 gate.secret_hash 的 bcrypt 哈希
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("密码不能为空")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
