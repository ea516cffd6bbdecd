package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vobon-server/internal/domain"
	"vobon-server/internal/service"
	"vobon-server/internal/transport/http/ez"
)

type CouponHandler struct{ svc *service.CouponService }

func NewCouponHandler(svc *service.CouponService) *CouponHandler { return &CouponHandler{svc: svc} }

type couponsQ struct {
	AvailableOnly string `form:"availableCouponOnly"`
}

type availabilityIn struct {
	Availability *domain.CouponAvailability `json:"availability"`
}

func (h *CouponHandler) MountAPI(pub, authed ez.EZ) {
	ez.Register(authed, ez.Action[service.CouponInput, *domain.Coupon]{
		Method: http.MethodPost,
		Path:   "/add-coupon",
		Binder: ez.BindJSON,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *service.CouponInput) (*domain.Coupon, error) {
			return h.svc.Create(c.Request.Context(), *in)
		},
	})

	// 只有字面量 "true" 才过滤
	ez.Register(pub, ez.Action[couponsQ, []domain.Coupon]{
		Method: http.MethodGet,
		Path:   "/coupons",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *couponsQ) ([]domain.Coupon, error) {
			return h.svc.List(c.Request.Context(), in.AvailableOnly == "true")
		},
	})

	ez.Register(authed, ez.Action[availabilityIn, *domain.Coupon]{
		Method: http.MethodPatch,
		Path:   "/change-coupon-availability/:id",
		Binder: ez.BindOptionalJSON,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *availabilityIn) (*domain.Coupon, error) {
			return h.svc.SetAvailability(c.Request.Context(), c.Param("id"), in.Availability)
		},
	})
}
