package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/internal/api/middleware"
	"github.com/ERIC-757875/TutorHub/internal/api/view"
	"github.com/ERIC-757875/TutorHub/internal/service"
	apperrors "github.com/ERIC-757875/TutorHub/pkg/errors"
)

// PageHandler 首页渲染
type PageHandler struct {
	tutorSvc service.TutorService
	title    string
	logger   *zap.Logger
}

// NewPageHandler 创建 PageHandler
func NewPageHandler(tutorSvc service.TutorService, title string, logger *zap.Logger) *PageHandler {
	return &PageHandler{tutorSvc: tutorSvc, title: title, logger: logger}
}

// Index 老师卡片页
// GET /
func (h *PageHandler) Index(c *gin.Context) {
	page, err := h.tutorSvc.Gallery(c.Request.Context(), parseQuery(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	middleware.SetDataSummary(c, page.Variant, page.Total)
	c.HTML(http.StatusOK, view.IndexTemplate, page)
}

// renderError 数据错误只给出通用提示，细节写入日志
func (h *PageHandler) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "页面暂时无法显示，请稍后再试"

	switch {
	case errors.Is(err, service.ErrInvalidFilterField):
		status = http.StatusBadRequest
		message = "筛选条件无效"
	case apperrors.IsDataError(err):
		message = "数据文件有误，请联系管理员检查表格"
		h.logger.Error("数据文件有误", zap.Error(err))
	default:
		h.logger.Error("首页渲染失败", zap.Error(err))
	}

	c.HTML(status, view.ErrorTemplate, gin.H{"Title": h.title, "Message": message})
}
