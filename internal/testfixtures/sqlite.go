// Package testfixtures 测试辅助：内存 sqlite、可控时钟、确定性 id
package testfixtures

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vobon-server/internal/core/database"
	"vobon-server/internal/repo"
)

// NewDB 每个测试一个独立的共享缓存内存库，已完成迁移
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          dsn,
		MaxOpenConns: 4,
		MaxIdleConns: 4,
		LogLevel:     "silent",
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func NewStore(tb testing.TB) *repo.Store {
	tb.Helper()
	return repo.NewStore(NewDB(tb))
}
