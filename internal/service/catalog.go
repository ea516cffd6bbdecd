package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vobon-server/internal/domain"
)

const (
	PageSize   = 6
	SampleSize = 8
)

type CatalogService struct {
	d       Deps
	shuffle func(n int, swap func(i, j int))
}

func NewCatalogService(d Deps) *CatalogService {
	return &CatalogService{d: d.withDefaults(), shuffle: rand.Shuffle}
}

type ApartmentPage struct {
	Apartments []domain.Apartment `json:"apartments"`
	TotalPages int                `json:"totalPages"`
	Page       int                `json:"page"`
}

func totalPages(total int64) int {
	return int((total + PageSize - 1) / PageSize)
}

// Page 页码从 1 开始；越界返回空切片而非错误
func (s *CatalogService) Page(ctx context.Context, page int) (*ApartmentPage, error) {
	total, err := s.d.Store.Apartments().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count apartments: %w", err)
	}
	out := &ApartmentPage{Apartments: []domain.Apartment{}, TotalPages: totalPages(total), Page: page}
	if page < 1 || page > out.TotalPages {
		return out, nil
	}
	items, err := s.d.Store.Apartments().Page(ctx, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, fmt.Errorf("page apartments: %w", err)
	}
	out.Apartments = items
	return out, nil
}

func (s *CatalogService) All(ctx context.Context) ([]domain.Apartment, error) {
	items, err := s.d.Store.Apartments().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list apartments: %w", err)
	}
	return items, nil
}

// Explore 无放回均匀抽样 SampleSize 条；库存不足时全部返回
func (s *CatalogService) Explore(ctx context.Context) ([]domain.Apartment, error) {
	ids, err := s.d.Store.Apartments().IDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("sample apartments: %w", err)
	}
	s.shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if len(ids) > SampleSize {
		ids = ids[:SampleSize]
	}
	items, err := s.d.Store.Apartments().FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("sample apartments: %w", err)
	}
	return items, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Apartment, error) {
	a, err := s.d.Store.Apartments().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get apartment: %w", err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: apartment %s", domain.ErrNotFound, id)
	}
	return a, nil
}

type ApartmentInput struct {
	Image       string          `json:"image"`
	FloorNo     int             `json:"floorNo"`
	BlockName   string          `json:"blockName"`
	ApartmentNo string          `json:"apartmentNo"`
	Rent        decimal.Decimal `json:"rent"`
}

func (in ApartmentInput) validate() error {
	if strings.TrimSpace(in.ApartmentNo) == "" {
		return fmt.Errorf("%w: apartmentNo is required", domain.ErrInvalidInput)
	}
	if !in.Rent.IsPositive() {
		return fmt.Errorf("%w: rent must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// Seed 批量导入（运维命令），新公寓一律 available
func (s *CatalogService) Seed(ctx context.Context, in []ApartmentInput) ([]domain.Apartment, error) {
	out := make([]domain.Apartment, 0, len(in))
	for i, a := range in {
		if err := a.validate(); err != nil {
			return nil, fmt.Errorf("apartment #%d: %w", i, err)
		}
		out = append(out, domain.Apartment{
			ID:          s.d.NewID(),
			Image:       strings.TrimSpace(a.Image),
			FloorNo:     a.FloorNo,
			BlockName:   strings.TrimSpace(a.BlockName),
			ApartmentNo: strings.TrimSpace(a.ApartmentNo),
			Rent:        a.Rent,
			Status:      domain.ApartmentAvailable,
		})
	}
	if err := s.d.Store.Apartments().CreateBatch(ctx, out); err != nil {
		return nil, fmt.Errorf("seed apartments: %w", err)
	}
	s.d.Log.Info("apartments seeded", zap.Int("count", len(out)))
	s.d.invalidate(ctx)
	return out, nil
}
