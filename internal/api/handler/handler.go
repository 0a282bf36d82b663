package handler

import (
	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/config"
	"github.com/ERIC-757875/TutorHub/internal/api/session"
	"github.com/ERIC-757875/TutorHub/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Tutor *TutorHandler
	Gate  *GateHandler
	Page  *PageHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, sessions *session.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		Tutor: NewTutorHandler(svc.Tutor, logger),
		Gate:  NewGateHandler(svc.Gate, sessions, cfg.UI.Title, logger),
		Page:  NewPageHandler(svc.Tutor, cfg.UI.Title, logger),
	}
}
