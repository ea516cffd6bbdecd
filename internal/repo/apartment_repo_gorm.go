package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vobon-server/internal/domain"
)

type ApartmentRepo struct{ db *gorm.DB }

func NewApartmentRepo(db *gorm.DB) *ApartmentRepo { return &ApartmentRepo{db: db} }

func (r *ApartmentRepo) Create(ctx context.Context, a *domain.Apartment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApartmentRepo) CreateBatch(ctx context.Context, as []domain.Apartment) error {
	if len(as) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&as).Error
}

func (r *ApartmentRepo) FindByID(ctx context.Context, id string) (*domain.Apartment, error) {
	var a domain.Apartment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApartmentRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Apartment{}).Count(&total).Error
	return total, err
}

// 分页需要稳定排序：created_at 之外再按 id 兜底
func (r *ApartmentRepo) Page(ctx context.Context, offset, limit int) ([]domain.Apartment, error) {
	items := []domain.Apartment{}
	err := r.db.WithContext(ctx).
		Order("created_at asc").Order("id asc").
		Offset(offset).Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *ApartmentRepo) All(ctx context.Context) ([]domain.Apartment, error) {
	items := []domain.Apartment{}
	err := r.db.WithContext(ctx).Order("created_at asc").Order("id asc").Find(&items).Error
	return items, err
}

func (r *ApartmentRepo) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.Apartment{}).Pluck("id", &ids).Error
	return ids, err
}

func (r *ApartmentRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Apartment, error) {
	items := []domain.Apartment{}
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *ApartmentRepo) SetStatus(ctx context.Context, id string, from, to domain.ApartmentStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Apartment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *ApartmentRepo) CountByStatus(ctx context.Context) (map[domain.ApartmentStatus]int64, error) {
	var rows []struct {
		Status domain.ApartmentStatus
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Apartment{}).
		Select("status, count(*) as n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.ApartmentStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
