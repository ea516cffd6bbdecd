package testfixtures

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vobon-server/internal/domain"
)

// SeedApartments 插入 n 套可租公寓，created_at 递增保证分页顺序
func SeedApartments(tb testing.TB, store domain.Store, n int) []domain.Apartment {
	tb.Helper()
	out := make([]domain.Apartment, 0, n)
	clock := NewClock(ReferenceTime())
	for i := 0; i < n; i++ {
		a := domain.Apartment{
			ID:          fmt.Sprintf("apt-%02d", i+1),
			FloorNo:     i%10 + 1,
			BlockName:   "A",
			ApartmentNo: fmt.Sprintf("A-%02d", i+1),
			Rent:        decimal.NewFromInt(int64(1000 + i*50)),
			Status:      domain.ApartmentAvailable,
			CreatedAt:   clock.Advance(time.Second),
		}
		if err := store.Apartments().Create(context.Background(), &a); err != nil {
			tb.Fatalf("seed apartment: %v", err)
		}
		out = append(out, a)
	}
	return out
}

// SeedUser 直接写入指定角色的用户
func SeedUser(tb testing.TB, store domain.Store, email string, role domain.Role) *domain.User {
	tb.Helper()
	u, _, err := store.Users().CreateIfAbsent(context.Background(), &domain.User{
		ID:    "user-" + email,
		Email: email,
		Name:  email,
		Role:  role,
	})
	if err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}
