package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"vobon-server/internal/domain"
)

type PaymentRepo struct{ db *gorm.DB }

func NewPaymentRepo(db *gorm.DB) *PaymentRepo { return &PaymentRepo{db: db} }

func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isDupKey(err) {
			return fmt.Errorf("%w: transaction %s already recorded", domain.ErrConflict, p.TransactionID)
		}
		return err
	}
	return nil
}

func (r *PaymentRepo) ListByEmail(ctx context.Context, email string) ([]domain.Payment, error) {
	items := []domain.Payment{}
	err := r.db.WithContext(ctx).Where("member_email = ?", email).Order("paid_at desc").Find(&items).Error
	return items, err
}
