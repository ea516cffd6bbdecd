package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"vobon-server/internal/domain"
)

type IdentityService struct{ d Deps }

func NewIdentityService(d Deps) *IdentityService { return &IdentityService{d: d.withDefaults()} }

type RegisterInput struct {
	Email    string
	Name     string
	PhotoURL string
}

func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, err := mail.ParseAddress(s); err != nil || s == "" {
		return "", fmt.Errorf("%w: invalid email %q", domain.ErrInvalidInput, s)
	}
	return s, nil
}

// Register 首次登录建档，已存在则原样返回（角色不变）
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*domain.User, bool, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, false, err
	}
	u := &domain.User{
		ID:       s.d.NewID(),
		Email:    email,
		Name:     strings.TrimSpace(in.Name),
		PhotoURL: strings.TrimSpace(in.PhotoURL),
		Role:     domain.RoleUser,
	}
	stored, created, err := s.d.Store.Users().CreateIfAbsent(ctx, u)
	if err != nil {
		return nil, false, fmt.Errorf("register user: %w", err)
	}
	if created {
		s.d.Log.Info("user registered", zap.String("email", email))
		s.d.invalidate(ctx)
	}
	return stored, created, nil
}

// RoleOf 未注册的邮箱返回空角色
func (s *IdentityService) RoleOf(ctx context.Context, email string) (domain.Role, error) {
	u, err := s.d.Store.Users().FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", fmt.Errorf("lookup role: %w", err)
	}
	if u == nil {
		return "", nil
	}
	return u.Role, nil
}

// Role 只有本人或管理员可查
func (s *IdentityService) Role(ctx context.Context, p domain.Principal, email string) (domain.Role, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if p.Email != email && !p.IsAdmin() {
		return "", domain.ErrForbidden
	}
	return s.RoleOf(ctx, email)
}

func (s *IdentityService) Members(ctx context.Context) ([]domain.User, error) {
	users, err := s.d.Store.Users().ListByRole(ctx, domain.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return users, nil
}

// Demote member → user；不联动公寓和租约
func (s *IdentityService) Demote(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	n, err := s.d.Store.Users().SetRole(ctx, email, domain.RoleUser, domain.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("demote %s: %w", email, err)
	}
	u, err := s.d.Store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("demote %s: %w", email, err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
	}
	if n == 0 && u.Role != domain.RoleUser {
		return nil, fmt.Errorf("%w: %s is %s, not a member", domain.ErrInvalidTransition, email, u.Role)
	}
	if n > 0 {
		s.d.Log.Info("member demoted", zap.String("email", email))
		s.d.invalidate(ctx)
	}
	return u, nil
}

// Promote 运维命令使用：授予管理员
func (s *IdentityService) Promote(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.d.Store.Users().SetRole(ctx, email, domain.RoleAdmin); err != nil {
		return nil, fmt.Errorf("promote %s: %w", email, err)
	}
	u, err := s.d.Store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("promote %s: %w", email, err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
	}
	s.d.Log.Info("user promoted to admin", zap.String("email", email))
	s.d.invalidate(ctx)
	return u, nil
}
