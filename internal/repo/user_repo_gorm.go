package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vobon-server/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) CreateIfAbsent(ctx context.Context, u *domain.User) (*domain.User, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(u)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return u, true, nil
	}
	// 唯一冲突 → 返回已有记录
	stored, err := r.FindByEmail(ctx, u.Email)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, errors.New("user vanished after conflict")
	}
	return stored, false, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	users := []domain.User{}
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("created_at asc").Find(&users).Error
	return users, err
}

func (r *UserRepo) SetRole(ctx context.Context, email string, to domain.Role, from ...domain.Role) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email)
	if len(from) > 0 {
		q = q.Where("role IN ?", from)
	}
	res := q.Update("role", to)
	return res.RowsAffected, res.Error
}

func (r *UserRepo) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	var rows []struct {
		Role domain.Role
		N    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Select("role, count(*) as n").Group("role").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Role]int64, len(rows))
	for _, row := range rows {
		out[row.Role] = row.N
	}
	return out, nil
}
