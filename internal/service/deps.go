package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vobon-server/internal/domain"
	"vobon-server/pkg/utils"
)

// Invalidator 派生数据（统计缓存）失效通知
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Deps 各服务共享依赖；Now/NewID 可在测试中替换
type Deps struct {
	Store domain.Store
	Log   *zap.Logger
	Now   func() time.Time
	NewID func() string
	Stats Invalidator
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = utils.NewID
	}
	return d
}

func (d Deps) invalidate(ctx context.Context) {
	if d.Stats != nil {
		d.Stats.Invalidate(ctx)
	}
}
