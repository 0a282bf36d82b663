package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/internal/api/middleware"
	"github.com/ERIC-757875/TutorHub/internal/api/session"
	"github.com/ERIC-757875/TutorHub/internal/api/view"
	"github.com/ERIC-757875/TutorHub/internal/dto"
	"github.com/ERIC-757875/TutorHub/internal/service"
	apperrors "github.com/ERIC-757875/TutorHub/pkg/errors"
	"github.com/ERIC-757875/TutorHub/pkg/response"
)

// GateHandler 访问密码处理器
type GateHandler struct {
	gateSvc  service.GateService
	sessions *session.Manager
	title    string
	logger   *zap.Logger
}

// NewGateHandler 创建 GateHandler
func NewGateHandler(gateSvc service.GateService, sessions *session.Manager, title string, logger *zap.Logger) *GateHandler {
	return &GateHandler{gateSvc: gateSvc, sessions: sessions, title: title, logger: logger}
}

// LoginPage 访问密码输入页
// GET /login
func (h *GateHandler) LoginPage(c *gin.Context) {
	if !h.gateSvc.Enabled() || h.sessions.Authenticated(c.Request) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, view.LoginTemplate, gin.H{"Title": h.title})
}

// Login 校验访问密码
// POST /login（表单 secret=... 或 JSON {"secret": "..."}）
func (h *GateHandler) Login(c *gin.Context) {
	html := middleware.WantsHTML(c)

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		// 超限交给 BodyLimit 统一回 413
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(err)
			return
		}
		if html {
			c.HTML(http.StatusBadRequest, view.LoginTemplate, gin.H{"Title": h.title, "Error": "参数校验失败"})
			return
		}
		response.BadRequest(c, response.CodeBadParam, "参数校验失败")
		return
	}

	if err := h.gateSvc.Authenticate(c.Request.Context(), req.Secret); err != nil {
		if !errors.Is(err, apperrors.ErrAuthenticationFailed) {
			h.logger.Error("访问密码校验异常", zap.Error(err))
			response.InternalError(c)
			return
		}
		h.logger.Warn("访问密码错误",
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		if html {
			c.HTML(http.StatusUnauthorized, view.LoginTemplate, gin.H{"Title": h.title, "Error": err.Error()})
			return
		}
		response.Unauthorized(c, response.CodeAuthFailed, err.Error())
		return
	}

	if err := h.sessions.Grant(c.Writer, c.Request); err != nil {
		h.logger.Error("保存会话失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	if html {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	response.OK(c, dto.LoginResponse{Authenticated: true})
}

// Logout 清除会话
// POST /logout
func (h *GateHandler) Logout(c *gin.Context) {
	if err := h.sessions.Revoke(c.Writer, c.Request); err != nil {
		h.logger.Error("清除会话失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	if middleware.WantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	response.OK(c, dto.LoginResponse{Authenticated: false})
}
