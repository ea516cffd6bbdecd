package domain

import "context"

// Store 六个集合的统一入口；Atomic 内的 tx Store 共享同一事务
type Store interface {
	Users() UserRepository
	Apartments() ApartmentRepository
	Agreements() AgreementRepository
	Coupons() CouponRepository
	Announcements() AnnouncementRepository
	Payments() PaymentRepository

	Atomic(ctx context.Context, fn func(tx Store) error) error
}

// Models 参与迁移的全部模型
func Models() []any {
	return []any{&User{}, &Apartment{}, &Agreement{}, &Coupon{}, &Announcement{}, &Payment{}}
}
