package service

import (
	"context"
	"sync/atomic"
	"testing"

	"go.uber.org/zap/zaptest"

	"vobon-server/internal/domain"
	"vobon-server/internal/repo"
	"vobon-server/internal/testfixtures"
)

type countingInvalidator struct{ n atomic.Int32 }

func (c *countingInvalidator) Invalidate(context.Context) { c.n.Add(1) }

type env struct {
	store *repo.Store
	clock *testfixtures.Clock
	stats *countingInvalidator
	deps  Deps
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		store: testfixtures.NewStore(t),
		clock: testfixtures.NewClock(testfixtures.ReferenceTime()),
		stats: &countingInvalidator{},
	}
	ids := testfixtures.NewIDGenerator("id")
	e.deps = Deps{
		Store: e.store,
		Log:   zaptest.NewLogger(t),
		Now:   e.clock.Now,
		NewID: ids.Next,
		Stats: e.stats,
	}
	return e
}

func principal(email string, role domain.Role) domain.Principal {
	return domain.Principal{Email: email, Role: role}
}
