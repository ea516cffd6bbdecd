package repo

import (
	"context"

	"gorm.io/gorm"

	"vobon-server/internal/domain"
)

type AnnouncementRepo struct{ db *gorm.DB }

func NewAnnouncementRepo(db *gorm.DB) *AnnouncementRepo { return &AnnouncementRepo{db: db} }

func (r *AnnouncementRepo) Create(ctx context.Context, a *domain.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AnnouncementRepo) List(ctx context.Context) ([]domain.Announcement, error) {
	items := []domain.Announcement{}
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&items).Error
	return items, err
}
