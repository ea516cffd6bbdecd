package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vobon-server/internal/domain"
	"vobon-server/internal/service"
	"vobon-server/internal/transport/http/ez"
)

type AnnouncementHandler struct{ svc *service.AnnouncementService }

func NewAnnouncementHandler(svc *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc}
}

type announcementIn struct {
	Title       string `json:"title" binding:"required,max=191"`
	Description string `json:"description"`
}

func (h *AnnouncementHandler) MountAPI(_, authed ez.EZ) {
	ez.Register(authed, ez.Action[announcementIn, *domain.Announcement]{
		Method: http.MethodPost,
		Path:   "/make-announcement",
		Binder: ez.BindJSON,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *announcementIn) (*domain.Announcement, error) {
			return h.svc.Create(c.Request.Context(), in.Title, in.Description)
		},
	})

	ez.Register(authed, ez.Action[struct{}, []domain.Announcement]{
		Method: http.MethodGet,
		Path:   "/announcements",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Announcement, error) {
			return h.svc.List(c.Request.Context())
		},
	})
}
