package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	variantKey = "data_variant"
	totalKey   = "data_total"
)

// SetDataSummary 记录本次请求命中的表结构与结果条数，供请求日志输出
func SetDataSummary(c *gin.Context, variant string, total int) {
	c.Set(variantKey, variant)
	c.Set(totalKey, total)
}

// gateState 访问密码状态：未经过 Gate 的路由记为 open
func gateState(c *gin.Context) string {
	v, ok := c.Get(AuthenticatedKey)
	if !ok {
		return "open"
	}
	if passed, _ := v.(bool); passed {
		return "passed"
	}
	return "blocked"
}

// Logger 请求日志中间件（基于 Zap 结构化日志）
// 除访问信息外还记录访问密码状态，以及数据接口的表结构与结果条数
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		statusCode := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := []zap.Field{
			zap.Int("status", statusCode),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", GetRequestID(c)),
			zap.String("gate", gateState(c)),
		}
		if variant := c.GetString(variantKey); variant != "" {
			fields = append(fields, zap.String("variant", variant), zap.Int("total", c.GetInt(totalKey)))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		switch {
		case statusCode >= 500:
			logger.Error("请求处理失败", fields...)
		case statusCode >= 400:
			logger.Warn("客户端错误", fields...)
		case route == "/health":
			logger.Debug("健康检查", fields...)
		default:
			logger.Info("请求完成", fields...)
		}
	}
}
