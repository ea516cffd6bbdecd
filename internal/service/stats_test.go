package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vobon-server/internal/core/cache"
	"vobon-server/internal/domain"
	"vobon-server/internal/testfixtures"
)

func TestComputeStats(t *testing.T) {
	got := computeStats(
		map[domain.Role]int64{domain.RoleUser: 4, domain.RoleMember: 2, domain.RoleAdmin: 1},
		map[domain.ApartmentStatus]int64{domain.ApartmentAvailable: 2, domain.ApartmentRented: 1},
	)
	assert.Equal(t, &AdminStats{
		Users: 4, Members: 2, Admins: 1,
		Apartments: 3, AvailableApartments: 2, RentedApartments: 1,
		AvailablePercentage: 67, RentedPercentage: 33,
	}, got)
}

func TestComputeStatsNoApartments(t *testing.T) {
	got := computeStats(map[domain.Role]int64{}, map[domain.ApartmentStatus]int64{})
	assert.Zero(t, got.Apartments)
	assert.Zero(t, got.AvailablePercentage)
	assert.Zero(t, got.RentedPercentage)
}

func TestStatsFromStore(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	apts := testfixtures.SeedApartments(t, e.store, 4)
	testfixtures.SeedUser(t, e.store, "u@x.io", domain.RoleUser)
	testfixtures.SeedUser(t, e.store, "m@x.io", domain.RoleMember)
	testfixtures.SeedUser(t, e.store, "a@x.io", domain.RoleAdmin)
	_, err := e.store.Apartments().SetStatus(ctx, apts[0].ID, domain.ApartmentAvailable, domain.ApartmentRented)
	require.NoError(t, err)

	got, err := NewStatsService(e.deps, nil, 0).Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Users)
	assert.EqualValues(t, 1, got.Members)
	assert.EqualValues(t, 1, got.Admins)
	assert.EqualValues(t, 4, got.Apartments)
	assert.Equal(t, 75, got.AvailablePercentage)
	assert.Equal(t, 25, got.RentedPercentage)
}

// redis 不可用时回源到数据库
func TestStatsCacheUnavailableFallsBack(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	e := newEnv(t)
	testfixtures.SeedApartments(t, e.store, 2)

	c := cache.New("127.0.0.1:1", "", 0)
	t.Cleanup(func() { _ = c.Close() })
	svc := NewStatsService(e.deps, c, time.Minute)

	got, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Apartments)
	assert.Equal(t, 100, got.AvailablePercentage)

	svc.Invalidate(ctx)
}
