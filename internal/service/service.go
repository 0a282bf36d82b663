package service

import (
	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/config"
	"github.com/ERIC-757875/TutorHub/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Tutor TutorService
	Gate  GateService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) (*Service, error) {
	gate, err := NewGateService(&cfg.Gate, logger)
	if err != nil {
		return nil, err
	}

	return &Service{
		Tutor: NewTutorService(repo, cfg.UI, logger),
		Gate:  gate,
	}, nil
}
