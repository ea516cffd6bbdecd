package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vobon-server/internal/domain"
	"vobon-server/internal/testfixtures"
)

func TestRegisterIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewIdentityService(e.deps)

	first, created, err := svc.Register(ctx, RegisterInput{Email: " Alice@Example.com ", Name: "Alice"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "alice@example.com", first.Email)
	assert.Equal(t, domain.RoleUser, first.Role)

	// 角色变更后再次登录不应覆盖
	_, err = e.store.Users().SetRole(ctx, "alice@example.com", domain.RoleMember)
	require.NoError(t, err)

	second, created, err := svc.Register(ctx, RegisterInput{Email: "alice@example.com", Name: "Someone Else"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Alice", second.Name)
	assert.Equal(t, domain.RoleMember, second.Role)
	assert.EqualValues(t, 1, e.stats.n.Load())
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	e := newEnv(t)
	_, _, err := NewIdentityService(e.deps).Register(context.Background(), RegisterInput{Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRoleVisibility(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewIdentityService(e.deps)
	testfixtures.SeedUser(t, e.store, "m@x.io", domain.RoleMember)

	role, err := svc.Role(ctx, principal("m@x.io", domain.RoleMember), "M@x.io")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, role)

	_, err = svc.Role(ctx, principal("other@x.io", domain.RoleUser), "m@x.io")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	role, err = svc.Role(ctx, principal("boss@x.io", domain.RoleAdmin), "m@x.io")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, role)

	role, err = svc.Role(ctx, principal("boss@x.io", domain.RoleAdmin), "ghost@x.io")
	require.NoError(t, err)
	assert.Empty(t, role)
}

func TestDemote(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewIdentityService(e.deps)
	testfixtures.SeedUser(t, e.store, "m@x.io", domain.RoleMember)
	testfixtures.SeedUser(t, e.store, "a@x.io", domain.RoleAdmin)
	testfixtures.SeedUser(t, e.store, "u@x.io", domain.RoleUser)

	u, err := svc.Demote(ctx, "m@x.io")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)

	members, err := svc.Members(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)

	_, err = svc.Demote(ctx, "a@x.io")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	u, err = svc.Demote(ctx, "u@x.io")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)

	_, err = svc.Demote(ctx, "ghost@x.io")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.EqualValues(t, 1, e.stats.n.Load())
}

func TestPromote(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewIdentityService(e.deps)
	testfixtures.SeedUser(t, e.store, "u@x.io", domain.RoleUser)

	u, err := svc.Promote(ctx, "U@x.io")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	_, err = svc.Promote(ctx, "ghost@x.io")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
