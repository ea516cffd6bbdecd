package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vobon-server/internal/domain"
)

type CouponService struct{ d Deps }

func NewCouponService(d Deps) *CouponService { return &CouponService{d: d.withDefaults()} }

type CouponInput struct {
	Code         string                    `json:"code"`
	Discount     decimal.Decimal           `json:"discount"`
	Description  string                    `json:"description"`
	Availability domain.CouponAvailability `json:"availability"`
}

var hundred = decimal.NewFromInt(100)

func (s *CouponService) Create(ctx context.Context, in CouponInput) (*domain.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", domain.ErrInvalidInput)
	}
	if !in.Discount.IsPositive() || in.Discount.GreaterThan(hundred) {
		return nil, fmt.Errorf("%w: discount must be in (0, 100]", domain.ErrInvalidInput)
	}
	if in.Availability == "" {
		in.Availability = domain.CouponAvailable
	}
	if !in.Availability.Valid() {
		return nil, fmt.Errorf("%w: availability %q", domain.ErrInvalidInput, in.Availability)
	}
	c := &domain.Coupon{
		ID:           s.d.NewID(),
		Code:         code,
		Discount:     in.Discount,
		Description:  strings.TrimSpace(in.Description),
		Availability: in.Availability,
	}
	if err := s.d.Store.Coupons().Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}
	s.d.Log.Info("coupon created", zap.String("coupon_id", c.ID), zap.String("code", c.Code))
	return c, nil
}

func (s *CouponService) List(ctx context.Context, onlyAvailable bool) ([]domain.Coupon, error) {
	items, err := s.d.Store.Coupons().List(ctx, onlyAvailable)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return items, nil
}

// SetAvailability to 为 nil 时取反
func (s *CouponService) SetAvailability(ctx context.Context, id string, to *domain.CouponAvailability) (*domain.Coupon, error) {
	c, err := s.d.Store.Coupons().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("change coupon: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: coupon %s", domain.ErrNotFound, id)
	}
	next := c.Availability.Toggle()
	if to != nil {
		if !to.Valid() {
			return nil, fmt.Errorf("%w: availability %q", domain.ErrInvalidInput, *to)
		}
		next = *to
	}
	if _, err := s.d.Store.Coupons().SetAvailability(ctx, id, next); err != nil {
		return nil, fmt.Errorf("change coupon: %w", err)
	}
	c.Availability = next
	return c, nil
}
