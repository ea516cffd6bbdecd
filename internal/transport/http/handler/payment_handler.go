package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"vobon-server/internal/domain"
	"vobon-server/internal/service"
	"vobon-server/internal/transport/http/ez"
)

type PaymentHandler struct{ svc *service.PaymentService }

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler { return &PaymentHandler{svc: svc} }

type intentIn struct {
	Price decimal.Decimal `json:"price"`
}

type intentOut struct {
	ClientSecret string `json:"clientSecret"`
}

func (h *PaymentHandler) MountAPI(_, authed ez.EZ) {
	ez.Register(authed, ez.Action[intentIn, intentOut]{
		Method: http.MethodPost,
		Path:   "/create-payment-intent",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *intentIn) (intentOut, error) {
			intent, err := h.svc.CreateIntent(c.Request.Context(), in.Price)
			if err != nil {
				return intentOut{}, err
			}
			return intentOut{ClientSecret: intent.ClientSecret}, nil
		},
	})

	ez.Register(authed, ez.Action[service.SavePaymentInput, *domain.Payment]{
		Method: http.MethodPost,
		Path:   "/save-payment-information",
		Binder: ez.BindJSON,
		Roles:  []domain.Role{domain.RoleMember},
		Handler: func(c *gin.Context, in *service.SavePaymentInput) (*domain.Payment, error) {
			return h.svc.Save(c.Request.Context(), ez.Caller(c), *in)
		},
	})

	ez.Register(authed, ez.Action[struct{}, []domain.Payment]{
		Method: http.MethodGet,
		Path:   "/my-payment-history/:email",
		Binder: ez.BindNone,
		Roles:  []domain.Role{domain.RoleMember},
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Payment, error) {
			return h.svc.History(c.Request.Context(), ez.Caller(c), c.Param("email"))
		},
	})
}
