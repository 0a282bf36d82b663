package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ERIC-757875/TutorHub/internal/api/session"
	"github.com/ERIC-757875/TutorHub/pkg/response"
)

// AuthenticatedKey gin.Context 中的访问密码通过标记
const AuthenticatedKey = "authenticated"

// Gate 访问密码中间件
// 页面请求未通过时跳转到 /login，API 请求返回 401
func Gate(enabled bool, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Set(AuthenticatedKey, true)
			c.Next()
			return
		}

		if !sessions.Authenticated(c.Request) {
			c.Set(AuthenticatedKey, false)
			if WantsHTML(c) {
				c.Redirect(http.StatusSeeOther, "/login")
			} else {
				response.Unauthorized(c, response.CodeGateRequired, "请先输入访问密码")
			}
			c.Abort()
			return
		}

		c.Set(AuthenticatedKey, true)
		c.Next()
	}
}
