package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/internal/api/middleware"
	"github.com/ERIC-757875/TutorHub/internal/service"
	apperrors "github.com/ERIC-757875/TutorHub/pkg/errors"
	"github.com/ERIC-757875/TutorHub/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TutorHandler 老师资料 API 处理器
type TutorHandler struct {
	tutorSvc service.TutorService
	logger   *zap.Logger
}

// NewTutorHandler 创建 TutorHandler
func NewTutorHandler(tutorSvc service.TutorService, logger *zap.Logger) *TutorHandler {
	return &TutorHandler{tutorSvc: tutorSvc, logger: logger}
}

// List 筛选后的老师卡片
// GET /api/v1/tutors?gender=男&university=北京大学&q=数学
func (h *TutorHandler) List(c *gin.Context) {
	result, err := h.tutorSvc.List(c.Request.Context(), parseQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	middleware.SetDataSummary(c, result.Variant, result.Total)
	response.OK(c, result)
}

// Options 可筛选列及候选值
// GET /api/v1/tutors/options
func (h *TutorHandler) Options(c *gin.Context) {
	result, err := h.tutorSvc.Options(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Export 导出当前筛选结果
// GET /api/v1/tutors/export
func (h *TutorHandler) Export(c *gin.Context) {
	buf, filename, err := h.tutorSvc.Export(c.Request.Context(), parseQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Refresh 丢弃缓存并重新读取数据文件
// POST /api/v1/tutors/refresh
func (h *TutorHandler) Refresh(c *gin.Context) {
	result, err := h.tutorSvc.Refresh(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *TutorHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidFilterField):
		response.BadRequest(c, response.CodeBadParam, err.Error())
	case apperrors.IsDataError(err):
		response.ErrorWithDetails(c, http.StatusInternalServerError, response.CodeDataInvalid,
			"数据文件有误，请联系管理员检查表格", dataErrorDetails(err))
	default:
		h.logger.Error("老师资料请求失败", zap.Error(err))
		response.InternalError(c)
	}
}

// dataErrorDetails 列出出错的列，供运维定位
func dataErrorDetails(err error) gin.H {
	var mismatch *apperrors.SchemaMismatchError
	if errors.As(err, &mismatch) {
		return gin.H{"variant": mismatch.Variant, "missing": mismatch.Missing, "context": mismatch.Context}
	}
	var invalid *apperrors.RecordInvalidError
	if errors.As(err, &invalid) {
		return gin.H{"row": invalid.Row, "field": invalid.Field, "reason": invalid.Reason}
	}
	return gin.H{"error": err.Error()}
}
