package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"vobon-server/internal/core/auth"
	"vobon-server/internal/core/server"
	"vobon-server/internal/service"
	"vobon-server/internal/transport/http/ez"
	"vobon-server/internal/transport/http/handler"
	mdw "vobon-server/internal/transport/http/middleware"
	resp "vobon-server/internal/transport/http/response"
)

type Services struct {
	Identity      *service.IdentityService
	Catalog       *service.CatalogService
	Agreements    *service.AgreementService
	Coupons       *service.CouponService
	Announcements *service.AnnouncementService
	Payments      *service.PaymentService
	Stats         *service.StatsService
}

type Options struct {
	Origins        []string
	Cookie         handler.CookieOptions
	RPS            float64
	Burst          int
	IPRPS          float64
	IPBurst        int
	MaxConcurrent  int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	// Health 可选的依赖探活（DB）
	Health func(ctx context.Context) error
}

func (o Options) withDefaults() Options {
	if o.Cookie.Name == "" {
		o.Cookie.Name = "token"
	}
	if o.RPS <= 0 {
		o.RPS, o.Burst = 200, 400
	}
	if o.IPRPS <= 0 {
		o.IPRPS, o.IPBurst = 20, 40
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 300
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 1 << 20
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	return o
}

func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, svc Services, opt Options) *gin.Engine {
	opt = opt.withDefaults()
	r := server.NewRouter(opt.Origins)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		mdw.AccessLog(l),
		mdw.Metrics(),
		mdw.RateLimit(rate.Limit(opt.RPS), opt.Burst),
		mdw.RateLimitPerIP(rate.Limit(opt.IPRPS), opt.IPBurst, 10*time.Minute),
		mdw.ConcurrencyLimit(opt.MaxConcurrent, time.Second),
		mdw.MaxBodyBytes(opt.MaxBodyBytes),
		mdw.Timeout(opt.RequestTimeout),
	)

	// 健康检查
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "vobon server is running") })
	r.GET("/health", func(c *gin.Context) {
		if opt.Health != nil {
			if err := opt.Health(c.Request.Context()); err != nil {
				l.Warn("health check failed", zap.Error(err))
				resp.Write(c, resp.Error(resp.CodeUnavailable, "unhealthy"))
				return
			}
		}
		resp.Write(c, resp.OK(gin.H{"ok": 1}))
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pub := ez.New(&r.RouterGroup, l)
	authed := pub.With(mdw.AuthJWT(jwter, opt.Cookie.Name, svc.Identity, l))

	var reg Registry
	reg.Register(
		handler.NewAuthHandler(jwter, opt.Cookie),
		handler.NewUserHandler(svc.Identity),
		handler.NewApartmentHandler(svc.Catalog),
		handler.NewAgreementHandler(svc.Agreements),
		handler.NewAnnouncementHandler(svc.Announcements),
		handler.NewCouponHandler(svc.Coupons),
		handler.NewPaymentHandler(svc.Payments),
		handler.NewStatsHandler(svc.Stats),
	)
	reg.MountAll(pub, authed)

	r.NoRoute(func(c *gin.Context) { resp.Write(c, resp.Error(resp.CodeNotFound, "")) })
	return r
}
