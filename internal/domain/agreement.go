package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AgreementStatus pending → checked | rejected，后两者为终态
type AgreementStatus string

const (
	AgreementPending  AgreementStatus = "pending"
	AgreementChecked  AgreementStatus = "checked"
	AgreementRejected AgreementStatus = "rejected"
)

func (s AgreementStatus) Terminal() bool {
	return s == AgreementChecked || s == AgreementRejected
}

type Agreement struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	UserName    string          `gorm:"size:128" json:"userName"`
	UserEmail   string          `gorm:"size:191;not null;index" json:"userEmail"`
	ApartmentID string          `gorm:"size:36;not null;index" json:"apartmentId"`
	FloorNo     int             `json:"floorNo"`
	BlockName   string          `gorm:"size:32" json:"blockName"`
	ApartmentNo string          `gorm:"size:32" json:"apartmentNo"`
	Rent        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rent"`
	Status      AgreementStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	RequestedAt time.Time       `json:"requestedAt"`
	DecidedAt   *time.Time      `json:"decidedAt,omitempty"`
	// ActiveKey 非 rejected 时等于 UserEmail，rejected 时为 NULL；唯一索引保证每个用户最多一条有效申请
	ActiveKey *string   `gorm:"uniqueIndex;size:191" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Agreement) TableName() string { return "agreements" }

// AcceptOutcome 审批通过的聚合结果；Applied=false 表示此前已通过（幂等重放）
type AcceptOutcome struct {
	Agreement       *Agreement      `json:"agreement"`
	UserRole        Role            `json:"userRole"`
	ApartmentStatus ApartmentStatus `json:"apartmentStatus"`
	Applied         bool            `json:"applied"`
}

type AgreementRepository interface {
	// Create 违反 ActiveKey 唯一约束时返回 ErrConflict
	Create(ctx context.Context, a *Agreement) error
	FindByID(ctx context.Context, id string) (*Agreement, error)
	FindActiveByEmail(ctx context.Context, email string) (*Agreement, error)
	FindByEmailAndStatus(ctx context.Context, email string, status AgreementStatus) (*Agreement, error)
	ListByStatus(ctx context.Context, status AgreementStatus) ([]Agreement, error)
	// Transition 条件迁移 from → to 并记录决策时间；迁到 rejected 时释放 ActiveKey
	Transition(ctx context.Context, id string, from, to AgreementStatus, at time.Time) (int64, error)
}
