package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vobon-server/internal/domain"
	"vobon-server/internal/service"
	"vobon-server/internal/transport/http/ez"
)

type UserHandler struct{ svc *service.IdentityService }

func NewUserHandler(svc *service.IdentityService) *UserHandler { return &UserHandler{svc: svc} }

type registerIn struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"omitempty,max=128"`
	PhotoURL string `json:"photoURL" binding:"omitempty,max=512"`
}

type roleOut struct {
	Role domain.Role `json:"role"`
}

func (h *UserHandler) MountAPI(pub, authed ez.EZ) {
	// 首次登录建档，已存在返回原记录
	ez.Register(pub, ez.Action[registerIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *registerIn) (*domain.User, error) {
			u, _, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
				Email: in.Email, Name: in.Name, PhotoURL: in.PhotoURL,
			})
			return u, err
		},
	})

	ez.Register(authed, ez.Action[struct{}, roleOut]{
		Method: http.MethodGet,
		Path:   "/user/role/:email",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (roleOut, error) {
			role, err := h.svc.Role(c.Request.Context(), ez.Caller(c), c.Param("email"))
			return roleOut{Role: role}, err
		},
	})

	ez.Register(authed, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/all-members",
		Binder: ez.BindNone,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			return h.svc.Members(c.Request.Context())
		},
	})

	// 降级：member → user
	ez.Register(authed, ez.Action[struct{}, *domain.User]{
		Method: http.MethodPatch,
		Path:   "/change-member-role/:email",
		Binder: ez.BindNone,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.Demote(c.Request.Context(), c.Param("email"))
		},
	})
}
