package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"vobon-server/internal/domain"
)

type CouponRepo struct{ db *gorm.DB }

func NewCouponRepo(db *gorm.DB) *CouponRepo { return &CouponRepo{db: db} }

func (r *CouponRepo) Create(ctx context.Context, c *domain.Coupon) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isDupKey(err) {
			return fmt.Errorf("%w: coupon code %q already exists", domain.ErrConflict, c.Code)
		}
		return err
	}
	return nil
}

func (r *CouponRepo) FindByID(ctx context.Context, id string) (*domain.Coupon, error) {
	var c domain.Coupon
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CouponRepo) List(ctx context.Context, onlyAvailable bool) ([]domain.Coupon, error) {
	items := []domain.Coupon{}
	q := r.db.WithContext(ctx).Order("created_at asc")
	if onlyAvailable {
		q = q.Where("availability = ?", domain.CouponAvailable)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *CouponRepo) SetAvailability(ctx context.Context, id string, a domain.CouponAvailability) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Coupon{}).Where("id = ?", id).Update("availability", a)
	return res.RowsAffected, res.Error
}
