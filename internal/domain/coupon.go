package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type CouponAvailability string

const (
	CouponAvailable   CouponAvailability = "available"
	CouponUnavailable CouponAvailability = "unavailable"
)

func (a CouponAvailability) Valid() bool {
	return a == CouponAvailable || a == CouponUnavailable
}

func (a CouponAvailability) Toggle() CouponAvailability {
	if a == CouponAvailable {
		return CouponUnavailable
	}
	return CouponAvailable
}

type Coupon struct {
	ID           string             `gorm:"primaryKey;size:36" json:"id"`
	Code         string             `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Discount     decimal.Decimal    `gorm:"type:decimal(5,2);not null" json:"discount"` // 百分比
	Description  string             `gorm:"size:512" json:"description"`
	Availability CouponAvailability `gorm:"size:16;not null;default:available;index" json:"availability"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

func (Coupon) TableName() string { return "coupons" }

type CouponRepository interface {
	Create(ctx context.Context, c *Coupon) error
	FindByID(ctx context.Context, id string) (*Coupon, error)
	List(ctx context.Context, onlyAvailable bool) ([]Coupon, error)
	SetAvailability(ctx context.Context, id string, a CouponAvailability) (int64, error)
}
