package repository

import (
	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/config"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Tutor TutorRepository
}

// NewRepository 创建 Repository 聚合：Excel 数据源 + 进程内缓存
func NewRepository(cfg *config.DataConfig, logger *zap.Logger) *Repository {
	return &Repository{
		Tutor: NewCachedTutorRepo(NewExcelTutorRepo(*cfg, logger), cfg.CacheTTL, logger),
	}
}
