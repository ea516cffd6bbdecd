package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"vobon-server/internal/core/auth"
	"vobon-server/internal/core/cache"
	"vobon-server/internal/core/config"
	"vobon-server/internal/core/database"
	"vobon-server/internal/core/logger"
	"vobon-server/internal/core/payment"
	"vobon-server/internal/core/server"
	"vobon-server/internal/repo"
	"vobon-server/internal/service"
	"vobon-server/internal/transport/http/handler"
	"vobon-server/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	// 金额以 JSON 数字输出
	decimal.MarshalJSONWithoutQuotes = true

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// redis 可选：只用于管理端统计缓存
	var statsCache *cache.Cache
	if cfg.Redis.Addr != "" {
		statsCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer statsCache.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := statsCache.Ping(ctx); err != nil {
			log.Warn("redis unreachable, stats will be computed per request", zap.Error(err))
		}
		cancel()
	}

	var provider payment.Provider = payment.Disabled{}
	if cfg.Stripe.SecretKey != "" {
		provider = payment.NewStripe(cfg.Stripe.SecretKey)
	} else {
		log.Warn("stripe secret key not set, payment intents are disabled")
	}

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.TTLHours) * time.Hour,
	}

	store := repo.NewStore(db)
	stats := service.NewStatsService(service.Deps{Store: store, Log: log}, statsCache,
		time.Duration(cfg.Redis.StatsTTLSec)*time.Second)
	deps := service.Deps{Store: store, Log: log, Stats: stats}
	svc := router.Services{
		Identity:      service.NewIdentityService(deps),
		Catalog:       service.NewCatalogService(deps),
		Agreements:    service.NewAgreementService(deps),
		Coupons:       service.NewCouponService(deps),
		Announcements: service.NewAnnouncementService(deps),
		Payments:      service.NewPaymentService(deps, provider, cfg.Stripe.Currency),
		Stats:         stats,
	}

	r := router.NewAPIEngine(log, jwter, svc, router.Options{
		Origins: cfg.CORS.Origins,
		Cookie: handler.CookieOptions{
			Name:   cfg.Cookie.Name,
			Secure: cfg.App.IsProduction(),
			MaxAge: jwter.TTL,
		},
		RPS:            cfg.Limits.RPS,
		Burst:          cfg.Limits.Burst,
		IPRPS:          cfg.Limits.IPRPS,
		IPBurst:        cfg.Limits.IPBurst,
		MaxConcurrent:  cfg.Limits.MaxConcurrent,
		MaxBodyBytes:   cfg.Limits.MaxBodyBytes,
		RequestTimeout: time.Duration(cfg.Limits.RequestTimeout) * time.Second,
		Health:         healthCheck(db),
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("vobon api starting",
		zap.String("addr", addr),
		zap.String("env", cfg.App.Env),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.Bool("stats_cache", statsCache != nil),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("vobon api start FAILED", zap.Error(err))
		}
	}()
	log.Info("vobon api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("vobon api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File != "" {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File,
			cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

// healthCheck 只探测 DB；redis 仅是缓存，不影响健康状态
func healthCheck(db *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("db: %w", err)
		}
		return nil
	}
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		LogWriter:          logger.ToWriter(l.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
