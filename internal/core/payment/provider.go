// Package payment 对接外部支付渠道（Stripe）
package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type Intent struct {
	ID           string
	ClientSecret string
}

type Provider interface {
	// CreateIntent amount 为最小货币单位（如美分）
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
}

var ErrNotConfigured = errors.New("payment: provider not configured")

type Stripe struct {
	sc *client.API
}

func NewStripe(secretKey string) *Stripe {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &Stripe{sc: sc}
}

func (s *Stripe) CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	pi, err := s.sc.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// Disabled 未配置密钥时使用，所有调用返回 ErrNotConfigured
type Disabled struct{}

func (Disabled) CreateIntent(context.Context, int64, string) (*Intent, error) {
	return nil, ErrNotConfigured
}
