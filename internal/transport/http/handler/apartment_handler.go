package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vobon-server/internal/domain"
	"vobon-server/internal/service"
	"vobon-server/internal/transport/http/ez"
)

type ApartmentHandler struct{ svc *service.CatalogService }

func NewApartmentHandler(svc *service.CatalogService) *ApartmentHandler {
	return &ApartmentHandler{svc: svc}
}

type pageQ struct {
	Page string `form:"page"`
}

// parsePage 缺省、非数字或 0 视为第 1 页；负数原样交给服务层（返回空页）
func parsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return 1
	}
	return n
}

func (h *ApartmentHandler) MountAPI(pub, _ ez.EZ) {
	ez.Register(pub, ez.Action[pageQ, *service.ApartmentPage]{
		Method: http.MethodGet,
		Path:   "/apartments",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (*service.ApartmentPage, error) {
			return h.svc.Page(c.Request.Context(), parsePage(in.Page))
		},
	})

	ez.Register(pub, ez.Action[struct{}, []domain.Apartment]{
		Method: http.MethodGet,
		Path:   "/all-apartments",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Apartment, error) {
			return h.svc.All(c.Request.Context())
		},
	})

	ez.Register(pub, ez.Action[struct{}, []domain.Apartment]{
		Method: http.MethodGet,
		Path:   "/explore-apartments",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Apartment, error) {
			return h.svc.Explore(c.Request.Context())
		},
	})

	ez.Register(pub, ez.Action[struct{}, *domain.Apartment]{
		Method: http.MethodGet,
		Path:   "/apartments/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Apartment, error) {
			return h.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})
}
