package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ERIC-757875/TutorHub/pkg/response"
)

// BodyLimit 登录表单请求体上限
// 声明了 Content-Length 的超限请求直接拒绝；分块上传由 MaxBytesReader 截断，
// 处理器把 *http.MaxBytesError 记到 c.Errors 后在这里统一回 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			rejectTooLarge(c)
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.Writer.Written() {
			return
		}
		for _, e := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(e.Err, &tooLarge) {
				rejectTooLarge(c)
				return
			}
		}
	}
}

func rejectTooLarge(c *gin.Context) {
	if WantsHTML(c) {
		c.String(http.StatusRequestEntityTooLarge, "请求体过大")
		return
	}
	response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "请求体过大")
}
