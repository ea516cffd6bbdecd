package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vobon-server/internal/domain"
	"vobon-server/internal/testfixtures"
)

func TestUserRepoCreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewStore(t)

	first, created, err := store.Users().CreateIfAbsent(ctx, &domain.User{ID: "u1", Email: "a@x.io", Name: "A", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := store.Users().CreateIfAbsent(ctx, &domain.User{ID: "u2", Email: "a@x.io", Name: "Other", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "A", again.Name)
	assert.Equal(t, domain.RoleUser, again.Role)
}

func TestUserRepoSetRoleRespectsFrom(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewStore(t)
	testfixtures.SeedUser(t, store, "admin@x.io", domain.RoleAdmin)

	n, err := store.Users().SetRole(ctx, "admin@x.io", domain.RoleUser, domain.RoleMember)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.Users().SetRole(ctx, "admin@x.io", domain.RoleMember, domain.RoleAdmin, domain.RoleUser)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	counts, err := store.Users().CountByRole(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[domain.RoleMember])
	assert.Zero(t, counts[domain.RoleAdmin])
}

func TestAgreementRepoActiveKeyUnique(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewStore(t)
	apts := testfixtures.SeedApartments(t, store, 2)

	newAgreement := func(id, aptID string) *domain.Agreement {
		key := "t@x.io"
		return &domain.Agreement{
			ID: id, UserEmail: "t@x.io", ApartmentID: aptID, Rent: decimal.NewFromInt(1000),
			Status: domain.AgreementPending, RequestedAt: time.Now(), ActiveKey: &key,
		}
	}

	require.NoError(t, store.Agreements().Create(ctx, newAgreement("ag-1", apts[0].ID)))

	err := store.Agreements().Create(ctx, newAgreement("ag-2", apts[1].ID))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict), "duplicate active agreement must map to ErrConflict, got %v", err)

	n, err := store.Agreements().Transition(ctx, "ag-1", domain.AgreementPending, domain.AgreementRejected, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// active_key 释放后可再次申请
	require.NoError(t, store.Agreements().Create(ctx, newAgreement("ag-3", apts[1].ID)))

	active, err := store.Agreements().FindActiveByEmail(ctx, "t@x.io")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "ag-3", active.ID)
}

func TestAgreementRepoTransitionIsConditional(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewStore(t)
	apts := testfixtures.SeedApartments(t, store, 1)
	key := "t@x.io"
	require.NoError(t, store.Agreements().Create(ctx, &domain.Agreement{
		ID: "ag-1", UserEmail: key, ApartmentID: apts[0].ID, Rent: apts[0].Rent,
		Status: domain.AgreementPending, RequestedAt: time.Now(), ActiveKey: &key,
	}))

	n, err := store.Agreements().Transition(ctx, "ag-1", domain.AgreementRejected, domain.AgreementChecked, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.Agreements().Transition(ctx, "ag-1", domain.AgreementPending, domain.AgreementChecked, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := store.Agreements().FindByID(ctx, "ag-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AgreementChecked, got.Status)
	assert.NotNil(t, got.DecidedAt)
	require.NotNil(t, got.ActiveKey)
}

func TestAtomicRollsBack(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewStore(t)
	apts := testfixtures.SeedApartments(t, store, 1)
	boom := errors.New("boom")

	err := store.Atomic(ctx, func(tx domain.Store) error {
		n, err := tx.Apartments().SetStatus(ctx, apts[0].ID, domain.ApartmentAvailable, domain.ApartmentRented)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Apartments().FindByID(ctx, apts[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApartmentAvailable, got.Status)
}

func TestApartmentRepoPagingAndCounts(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewStore(t)
	apts := testfixtures.SeedApartments(t, store, 7)

	page, err := store.Apartments().Page(ctx, 6, 6)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, apts[6].ID, page[0].ID)

	_, err = store.Apartments().SetStatus(ctx, apts[0].ID, domain.ApartmentAvailable, domain.ApartmentRented)
	require.NoError(t, err)
	counts, err := store.Apartments().CountByStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, counts[domain.ApartmentAvailable])
	assert.EqualValues(t, 1, counts[domain.ApartmentRented])

	got, err := store.Apartments().FindByIDs(ctx, []string{apts[1].ID, apts[2].ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCouponAndPaymentUniqueness(t *testing.T) {
	ctx := context.Background()
	store := testfixtures.NewStore(t)

	c := &domain.Coupon{ID: "c1", Code: "SAVE10", Discount: decimal.NewFromInt(10), Availability: domain.CouponAvailable}
	require.NoError(t, store.Coupons().Create(ctx, c))
	err := store.Coupons().Create(ctx, &domain.Coupon{ID: "c2", Code: "SAVE10", Discount: decimal.NewFromInt(5), Availability: domain.CouponAvailable})
	assert.ErrorIs(t, err, domain.ErrConflict)

	p := &domain.Payment{ID: "p1", MemberEmail: "m@x.io", Amount: decimal.NewFromInt(900), TransactionID: "pi_1", PaidAt: time.Now()}
	require.NoError(t, store.Payments().Create(ctx, p))
	err = store.Payments().Create(ctx, &domain.Payment{ID: "p2", MemberEmail: "m@x.io", Amount: decimal.NewFromInt(900), TransactionID: "pi_1", PaidAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
