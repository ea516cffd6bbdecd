package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ApartmentStatus string

const (
	ApartmentAvailable ApartmentStatus = "available"
	ApartmentRented    ApartmentStatus = "rented"
)

func (s ApartmentStatus) Valid() bool {
	return s == ApartmentAvailable || s == ApartmentRented
}

type Apartment struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	Image       string          `gorm:"size:512" json:"image"`
	FloorNo     int             `json:"floorNo"`
	BlockName   string          `gorm:"size:32" json:"blockName"`
	ApartmentNo string          `gorm:"size:32" json:"apartmentNo"`
	Rent        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rent"`
	Status      ApartmentStatus `gorm:"size:16;not null;default:available;index" json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Apartment) TableName() string { return "apartments" }

type ApartmentRepository interface {
	Create(ctx context.Context, a *Apartment) error
	CreateBatch(ctx context.Context, as []Apartment) error
	FindByID(ctx context.Context, id string) (*Apartment, error)
	Count(ctx context.Context) (int64, error)
	Page(ctx context.Context, offset, limit int) ([]Apartment, error)
	All(ctx context.Context) ([]Apartment, error)
	IDs(ctx context.Context) ([]string, error)
	FindByIDs(ctx context.Context, ids []string) ([]Apartment, error)
	// SetStatus 条件更新：仅当当前状态为 from 时改为 to
	SetStatus(ctx context.Context, id string, from, to ApartmentStatus) (int64, error)
	CountByStatus(ctx context.Context) (map[ApartmentStatus]int64, error)
}
