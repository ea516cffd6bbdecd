package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"vobon-server/internal/domain"
)

type AgreementRepo struct{ db *gorm.DB }

func NewAgreementRepo(db *gorm.DB) *AgreementRepo { return &AgreementRepo{db: db} }

func (r *AgreementRepo) Create(ctx context.Context, a *domain.Agreement) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if isDupKey(err) {
			return fmt.Errorf("%w: %s already has an active agreement request", domain.ErrConflict, a.UserEmail)
		}
		return err
	}
	return nil
}

func (r *AgreementRepo) FindByID(ctx context.Context, id string) (*domain.Agreement, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *AgreementRepo) FindActiveByEmail(ctx context.Context, email string) (*domain.Agreement, error) {
	return r.first(r.db.WithContext(ctx).Where("user_email = ? AND status <> ?", email, domain.AgreementRejected))
}

func (r *AgreementRepo) FindByEmailAndStatus(ctx context.Context, email string, status domain.AgreementStatus) (*domain.Agreement, error) {
	return r.first(r.db.WithContext(ctx).Where("user_email = ? AND status = ?", email, status).Order("requested_at desc"))
}

func (r *AgreementRepo) ListByStatus(ctx context.Context, status domain.AgreementStatus) ([]domain.Agreement, error) {
	items := []domain.Agreement{}
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("requested_at asc").Find(&items).Error
	return items, err
}

func (r *AgreementRepo) Transition(ctx context.Context, id string, from, to domain.AgreementStatus, at time.Time) (int64, error) {
	fields := map[string]any{"status": to, "decided_at": at}
	if to == domain.AgreementRejected {
		fields["active_key"] = nil
	}
	res := r.db.WithContext(ctx).Model(&domain.Agreement{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *AgreementRepo) first(q *gorm.DB) (*domain.Agreement, error) {
	var a domain.Agreement
	err := q.First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
