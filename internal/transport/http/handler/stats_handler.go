package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vobon-server/internal/domain"
	"vobon-server/internal/service"
	"vobon-server/internal/transport/http/ez"
)

type StatsHandler struct{ svc *service.StatsService }

func NewStatsHandler(svc *service.StatsService) *StatsHandler { return &StatsHandler{svc: svc} }

func (h *StatsHandler) MountAPI(_, authed ez.EZ) {
	ez.Register(authed, ez.Action[struct{}, *service.AdminStats]{
		Method: http.MethodGet,
		Path:   "/admin-stats",
		Binder: ez.BindNone,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (*service.AdminStats, error) {
			return h.svc.Stats(c.Request.Context())
		},
	})
}
