package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Payment 只追加，不修改
type Payment struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	MemberEmail   string          `gorm:"size:191;not null;index" json:"memberEmail"`
	ApartmentID   string          `gorm:"size:36" json:"apartmentId"`
	Month         string          `gorm:"size:32" json:"month"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CouponCode    string          `gorm:"size:64" json:"couponCode,omitempty"`
	TransactionID string          `gorm:"uniqueIndex;size:191;not null" json:"transactionId"`
	PaidAt        time.Time       `json:"paidAt"`
}

func (Payment) TableName() string { return "payments" }

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	ListByEmail(ctx context.Context, email string) ([]Payment, error)
}
