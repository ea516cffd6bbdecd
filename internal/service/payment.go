package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vobon-server/internal/core/payment"
	"vobon-server/internal/domain"
)

type PaymentService struct {
	d        Deps
	provider payment.Provider
	currency string
}

func NewPaymentService(d Deps, provider payment.Provider, currency string) *PaymentService {
	if provider == nil {
		provider = payment.Disabled{}
	}
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{d: d.withDefaults(), provider: provider, currency: strings.ToLower(currency)}
}

// CreateIntent price 为主货币单位，发送给渠道前换算为最小单位
func (s *PaymentService) CreateIntent(ctx context.Context, price decimal.Decimal) (*payment.Intent, error) {
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	}
	amount := price.Mul(hundred).Round(0).IntPart()
	intent, err := s.provider.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return intent, nil
}

type SavePaymentInput struct {
	ApartmentID   string          `json:"apartmentId"`
	Month         string          `json:"month"`
	Amount        decimal.Decimal `json:"amount"`
	CouponCode    string          `json:"couponCode"`
	TransactionID string          `json:"transactionId"`
}

// Save 记录已完成的付款；付款人固定为会话中的会员
func (s *PaymentService) Save(ctx context.Context, p domain.Principal, in SavePaymentInput) (*domain.Payment, error) {
	if p.Role != domain.RoleMember {
		return nil, domain.ErrForbidden
	}
	txID := strings.TrimSpace(in.TransactionID)
	if txID == "" {
		return nil, fmt.Errorf("%w: transactionId is required", domain.ErrInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	pay := &domain.Payment{
		ID:            s.d.NewID(),
		MemberEmail:   p.Email,
		ApartmentID:   strings.TrimSpace(in.ApartmentID),
		Month:         strings.TrimSpace(in.Month),
		Amount:        in.Amount,
		CouponCode:    strings.ToUpper(strings.TrimSpace(in.CouponCode)),
		TransactionID: txID,
		PaidAt:        s.d.Now(),
	}
	if err := s.d.Store.Payments().Create(ctx, pay); err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}
	s.d.Log.Info("payment recorded",
		zap.String("payment_id", pay.ID),
		zap.String("email", pay.MemberEmail),
		zap.String("amount", pay.Amount.String()),
	)
	return pay, nil
}

func (s *PaymentService) History(ctx context.Context, p domain.Principal, email string) ([]domain.Payment, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if p.Email != email || p.Role != domain.RoleMember {
		return nil, domain.ErrForbidden
	}
	items, err := s.d.Store.Payments().ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("payment history: %w", err)
	}
	return items, nil
}
