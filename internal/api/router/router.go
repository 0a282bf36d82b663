package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/config"
	"github.com/ERIC-757875/TutorHub/internal/api/handler"
	"github.com/ERIC-757875/TutorHub/internal/api/middleware"
	"github.com/ERIC-757875/TutorHub/internal/api/session"
	"github.com/ERIC-757875/TutorHub/internal/api/view"
)

// loginBodyLimit 登录表单请求体上限
const loginBodyLimit = 4 << 10

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时登录不限流
func Setup(cfg *config.Config, h *handler.Handler, sessions *session.Manager, limiter middleware.RateLimiter, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	tmpl, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("解析页面模板失败: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
	})

	// ── 访问密码（无需通过） ──
	r.GET("/login", h.Gate.LoginPage)
	r.POST("/login",
		middleware.BodyLimit(loginBodyLimit),
		middleware.RateLimit(limiter, cfg.Gate.MaxAttempts, cfg.Gate.AttemptWindow, logger),
		h.Gate.Login,
	)
	r.POST("/logout", h.Gate.Logout)

	// ── 需要通过访问密码的路由 ──
	gated := r.Group("")
	gated.Use(middleware.Gate(cfg.Gate.Enabled, sessions))
	{
		gated.GET("/", h.Page.Index)

		tutors := gated.Group("/api/v1/tutors")
		{
			tutors.GET("", h.Tutor.List)
			tutors.GET("/options", h.Tutor.Options)
			tutors.GET("/export", h.Tutor.Export)
			tutors.POST("/refresh", h.Tutor.Refresh)
		}
	}

	return r, nil
}
