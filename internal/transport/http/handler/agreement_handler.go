package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vobon-server/internal/domain"
	"vobon-server/internal/service"
	"vobon-server/internal/transport/http/ez"
)

type AgreementHandler struct{ svc *service.AgreementService }

func NewAgreementHandler(svc *service.AgreementService) *AgreementHandler {
	return &AgreementHandler{svc: svc}
}

// 申请人邮箱取自会话，body 中的 userEmail 被忽略
type agreementIn struct {
	ApartmentID string `json:"apartmentId" binding:"required"`
	UserName    string `json:"userName" binding:"omitempty,max=128"`
}

func (h *AgreementHandler) MountAPI(_, authed ez.EZ) {
	ez.Register(authed, ez.Action[agreementIn, *domain.Agreement]{
		Method: http.MethodPost,
		Path:   "/make-agreement-request",
		Binder: ez.BindJSON,
		Roles:  []domain.Role{domain.RoleUser},
		Handler: func(c *gin.Context, in *agreementIn) (*domain.Agreement, error) {
			return h.svc.Submit(c.Request.Context(), ez.Caller(c), service.SubmitInput{
				ApartmentID: in.ApartmentID,
				UserName:    in.UserName,
			})
		},
	})

	ez.Register(authed, ez.Action[struct{}, []domain.Agreement]{
		Method: http.MethodGet,
		Path:   "/all-agreement-requests",
		Binder: ez.BindNone,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Agreement, error) {
			return h.svc.Pending(c.Request.Context())
		},
	})

	// 邮箱、公寓 id 一律以库中租约为准，body 不读
	ez.Register(authed, ez.Action[struct{}, *domain.AcceptOutcome]{
		Method: http.MethodPatch,
		Path:   "/accept-agreement-request/:id",
		Binder: ez.BindNone,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (*domain.AcceptOutcome, error) {
			return h.svc.Accept(c.Request.Context(), c.Param("id"))
		},
	})

	ez.Register(authed, ez.Action[struct{}, *domain.Agreement]{
		Method: http.MethodPatch,
		Path:   "/reject-agreement-request/:id",
		Binder: ez.BindNone,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Agreement, error) {
			return h.svc.Reject(c.Request.Context(), c.Param("id"))
		},
	})

	ez.Register(authed, ez.Action[struct{}, *domain.Agreement]{
		Method: http.MethodGet,
		Path:   "/my-agreement/:email",
		Binder: ez.BindNone,
		Roles:  []domain.Role{domain.RoleMember},
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Agreement, error) {
			return h.svc.Mine(c.Request.Context(), ez.Caller(c), c.Param("email"))
		},
	})
}
