package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/ERIC-757875/TutorHub/pkg/errors"
	"github.com/ERIC-757875/TutorHub/pkg/response"
)

// RateLimiter 滑动窗口计数器，pkg/redis.Client 与 MemoryLimiter 均实现该接口
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 速率限制中间件
// limit: 窗口内允许的最大请求数
// window: 滑动窗口时长
// limiter 为 nil 或出错时降级放行
func RateLimit(limiter RateLimiter, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := limiter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("限流检查失败，放行", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			logger.Warn("请求过于频繁",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.FullPath()),
				zap.String("request_id", GetRequestID(c)),
			)
			if WantsHTML(c) {
				c.String(http.StatusTooManyRequests, apperrors.ErrTooManyAttempts.Error())
			} else {
				response.TooManyRequests(c, apperrors.ErrTooManyAttempts.Error())
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// WantsHTML 判断请求是否来自浏览器页面（而非 API 调用）
func WantsHTML(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return false
	}
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return false
	}
	return !strings.HasPrefix(c.ContentType(), "application/json")
}

// ── 进程内实现 ──

// MemoryLimiter 未配置 Redis 时使用的进程内滑动窗口
type MemoryLimiter struct {
	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

// NewMemoryLimiter 创建 MemoryLimiter
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{hits: make(map[string][]time.Time), now: time.Now}
}

// CheckRateLimit 记录一次访问，并判断 window 内的访问次数是否仍不超过 limit
func (m *MemoryLimiter) CheckRateLimit(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-window)
	kept := m.hits[key][:0]
	for _, t := range m.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	m.hits[key] = kept

	m.gc(cutoff)
	return len(kept) <= limit, nil
}

// gc 清理整个窗口内都没有访问的 key
func (m *MemoryLimiter) gc(cutoff time.Time) {
	for k, hits := range m.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(m.hits, k)
		}
	}
}
