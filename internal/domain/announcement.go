package domain

import (
	"context"
	"time"
)

type Announcement struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:191;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Announcement) TableName() string { return "announcements" }

type AnnouncementRepository interface {
	Create(ctx context.Context, a *Announcement) error
	List(ctx context.Context) ([]Announcement, error)
}
