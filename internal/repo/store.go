package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"vobon-server/internal/domain"
)

// Store 基于 gorm 的 domain.Store 实现
type Store struct {
	db            *gorm.DB
	users         *UserRepo
	apartments    *ApartmentRepo
	agreements    *AgreementRepo
	coupons       *CouponRepo
	announcements *AnnouncementRepo
	payments      *PaymentRepo
}

var _ domain.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		users:         NewUserRepo(db),
		apartments:    NewApartmentRepo(db),
		agreements:    NewAgreementRepo(db),
		coupons:       NewCouponRepo(db),
		announcements: NewAnnouncementRepo(db),
		payments:      NewPaymentRepo(db),
	}
}

func (s *Store) Users() domain.UserRepository                 { return s.users }
func (s *Store) Apartments() domain.ApartmentRepository       { return s.apartments }
func (s *Store) Agreements() domain.AgreementRepository       { return s.agreements }
func (s *Store) Coupons() domain.CouponRepository             { return s.coupons }
func (s *Store) Announcements() domain.AnnouncementRepository { return s.announcements }
func (s *Store) Payments() domain.PaymentRepository           { return s.payments }

// Atomic 在单个数据库事务中执行 fn，fn 返回错误即回滚
func (s *Store) Atomic(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey（需开启 TranslateError），按各驱动错误文本判断
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
