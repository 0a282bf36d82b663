package middleware

import (
	"github.com/gin-gonic/gin"
)

// contentPolicy 页面不加载任何脚本，样式全部内联在模板里
const contentPolicy = "default-src 'none'; style-src 'unsafe-inline'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'; base-uri 'none'"

// SecurityHeaders 安全 HTTP 头
// 老师资料只对通过访问密码的会话可见，响应一律不进共享缓存
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Content-Security-Policy", contentPolicy)
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "private, no-store")
		h.Add("Vary", "Cookie")

		c.Next()
	}
}
