package service

import (
	"context"
	"fmt"
	"strings"

	"vobon-server/internal/domain"
)

type AnnouncementService struct{ d Deps }

func NewAnnouncementService(d Deps) *AnnouncementService {
	return &AnnouncementService{d: d.withDefaults()}
}

func (s *AnnouncementService) Create(ctx context.Context, title, description string) (*domain.Announcement, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	a := &domain.Announcement{
		ID:          s.d.NewID(),
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.d.Now(),
	}
	if err := s.d.Store.Announcements().Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	return a, nil
}

func (s *AnnouncementService) List(ctx context.Context) ([]domain.Announcement, error) {
	items, err := s.d.Store.Announcements().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return items, nil
}
