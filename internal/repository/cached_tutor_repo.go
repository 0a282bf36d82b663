package repository

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/internal/model"
)

// CachedTutorRepository 进程内缓存一次加载结果
// 失败的加载不缓存，下一次请求会重新读取文件
type CachedTutorRepository struct {
	inner  TutorRepository
	ttl    time.Duration // 0 表示不过期
	now    func() time.Time
	logger *zap.Logger

	mu       sync.Mutex
	snapshot *model.Collection
	cachedAt time.Time
}

// NewCachedTutorRepo 为 inner 加一层缓存
func NewCachedTutorRepo(inner TutorRepository, ttl time.Duration, logger *zap.Logger) *CachedTutorRepository {
	return &CachedTutorRepository{
		inner:  inner,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

func (r *CachedTutorRepository) Load(ctx context.Context) (*model.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshot != nil && (r.ttl == 0 || r.now().Sub(r.cachedAt) < r.ttl) {
		return r.snapshot, nil
	}

	col, err := r.inner.Load(ctx)
	if err != nil {
		r.snapshot = nil
		return nil, err
	}

	r.snapshot = col
	r.cachedAt = r.now()
	return col, nil
}

// Invalidate 丢弃缓存
func (r *CachedTutorRepository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshot != nil {
		r.logger.Info("数据缓存已失效", zap.String("source", r.snapshot.Source))
	}
	r.snapshot = nil
	r.inner.Invalidate()
}
