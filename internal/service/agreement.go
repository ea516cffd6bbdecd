package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"vobon-server/internal/domain"
)

// AgreementService 租约申请工作流：提交 → 审批通过（级联）| 驳回
type AgreementService struct{ d Deps }

func NewAgreementService(d Deps) *AgreementService { return &AgreementService{d: d.withDefaults()} }

type SubmitInput struct {
	ApartmentID string
	UserName    string
}

// Submit 申请人身份取自会话。有效申请（非 rejected）的唯一性由 active_key 唯一索引保证，
// 这里的预检只用于给出更友好的提示。
func (s *AgreementService) Submit(ctx context.Context, p domain.Principal, in SubmitInput) (*domain.Agreement, error) {
	if p.Email == "" {
		return nil, domain.ErrForbidden
	}
	aptID := strings.TrimSpace(in.ApartmentID)
	if aptID == "" {
		return nil, fmt.Errorf("%w: apartmentId is required", domain.ErrInvalidInput)
	}
	apt, err := s.d.Store.Apartments().FindByID(ctx, aptID)
	if err != nil {
		return nil, fmt.Errorf("submit agreement: %w", err)
	}
	if apt == nil {
		return nil, fmt.Errorf("%w: apartment %s", domain.ErrNotFound, aptID)
	}
	if apt.Status != domain.ApartmentAvailable {
		return nil, fmt.Errorf("%w: apartment %s is already rented", domain.ErrConflict, aptID)
	}

	existing, err := s.d.Store.Agreements().FindActiveByEmail(ctx, p.Email)
	if err != nil {
		return nil, fmt.Errorf("submit agreement: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: you already have a %s agreement request", domain.ErrConflict, existing.Status)
	}

	key := p.Email
	ag := &domain.Agreement{
		ID:          s.d.NewID(),
		UserName:    strings.TrimSpace(in.UserName),
		UserEmail:   p.Email,
		ApartmentID: apt.ID,
		FloorNo:     apt.FloorNo,
		BlockName:   apt.BlockName,
		ApartmentNo: apt.ApartmentNo,
		Rent:        apt.Rent,
		Status:      domain.AgreementPending,
		RequestedAt: s.d.Now(),
		ActiveKey:   &key,
	}
	if err := s.d.Store.Agreements().Create(ctx, ag); err != nil {
		return nil, fmt.Errorf("submit agreement: %w", err)
	}
	agreementTransitions.WithLabelValues(string(domain.AgreementPending)).Inc()
	s.d.Log.Info("agreement requested",
		zap.String("agreement_id", ag.ID),
		zap.String("email", ag.UserEmail),
		zap.String("apartment_id", ag.ApartmentID),
	)
	return ag, nil
}

func (s *AgreementService) Pending(ctx context.Context) ([]domain.Agreement, error) {
	items, err := s.d.Store.Agreements().ListByStatus(ctx, domain.AgreementPending)
	if err != nil {
		return nil, fmt.Errorf("list pending agreements: %w", err)
	}
	return items, nil
}

// Accept 在一个事务里完成：租约 → checked、用户 → member、公寓 → rented。
// 用户邮箱与公寓 id 一律取自库中的租约记录。
func (s *AgreementService) Accept(ctx context.Context, id string) (*domain.AcceptOutcome, error) {
	var out *domain.AcceptOutcome
	err := s.d.Store.Atomic(ctx, func(tx domain.Store) error {
		ag, err := tx.Agreements().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if ag == nil {
			return fmt.Errorf("%w: agreement %s", domain.ErrNotFound, id)
		}

		switch ag.Status {
		case domain.AgreementRejected:
			return fmt.Errorf("%w: agreement %s was rejected", domain.ErrInvalidTransition, id)
		case domain.AgreementChecked:
			// 重复审批：不再写入，回报当前状态
			out, err = s.snapshot(ctx, tx, ag)
			return err
		}

		n, err := tx.Apartments().SetStatus(ctx, ag.ApartmentID, domain.ApartmentAvailable, domain.ApartmentRented)
		if err != nil {
			return err
		}
		if n == 0 {
			apt, err := tx.Apartments().FindByID(ctx, ag.ApartmentID)
			if err != nil {
				return err
			}
			if apt == nil {
				return fmt.Errorf("%w: apartment %s", domain.ErrNotFound, ag.ApartmentID)
			}
			return fmt.Errorf("%w: apartment %s is already rented", domain.ErrConflict, ag.ApartmentID)
		}

		if err := s.promoteRequester(ctx, tx, ag.UserEmail); err != nil {
			return err
		}

		now := s.d.Now()
		n, err = tx.Agreements().Transition(ctx, ag.ID, domain.AgreementPending, domain.AgreementChecked, now)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: agreement %s changed concurrently", domain.ErrConflict, id)
		}
		ag.Status = domain.AgreementChecked
		ag.DecidedAt = &now
		out = &domain.AcceptOutcome{
			Agreement:       ag,
			UserRole:        domain.RoleMember,
			ApartmentStatus: domain.ApartmentRented,
			Applied:         true,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("accept agreement: %w", err)
	}
	if out.Applied {
		agreementTransitions.WithLabelValues(string(domain.AgreementChecked)).Inc()
		s.d.Log.Info("agreement accepted",
			zap.String("agreement_id", out.Agreement.ID),
			zap.String("email", out.Agreement.UserEmail),
			zap.String("apartment_id", out.Agreement.ApartmentID),
		)
		s.d.invalidate(ctx)
	}
	return out, nil
}

func (s *AgreementService) promoteRequester(ctx context.Context, tx domain.Store, email string) error {
	n, err := tx.Users().SetRole(ctx, email, domain.RoleMember, domain.RoleUser)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	u, err := tx.Users().FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	switch {
	case u == nil:
		return fmt.Errorf("%w: requester %s", domain.ErrNotFound, email)
	case u.Role == domain.RoleMember:
		return nil
	default:
		return fmt.Errorf("%w: requester %s is %s", domain.ErrInvalidTransition, email, u.Role)
	}
}

func (s *AgreementService) snapshot(ctx context.Context, tx domain.Store, ag *domain.Agreement) (*domain.AcceptOutcome, error) {
	out := &domain.AcceptOutcome{Agreement: ag}
	u, err := tx.Users().FindByEmail(ctx, ag.UserEmail)
	if err != nil {
		return nil, err
	}
	if u != nil {
		out.UserRole = u.Role
	}
	apt, err := tx.Apartments().FindByID(ctx, ag.ApartmentID)
	if err != nil {
		return nil, err
	}
	if apt != nil {
		out.ApartmentStatus = apt.Status
	}
	return out, nil
}

// Reject 只改租约本身，不联动用户和公寓
func (s *AgreementService) Reject(ctx context.Context, id string) (*domain.Agreement, error) {
	var (
		out     *domain.Agreement
		applied bool
	)
	err := s.d.Store.Atomic(ctx, func(tx domain.Store) error {
		ag, err := tx.Agreements().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if ag == nil {
			return fmt.Errorf("%w: agreement %s", domain.ErrNotFound, id)
		}
		switch ag.Status {
		case domain.AgreementRejected:
			out = ag
			return nil
		case domain.AgreementChecked:
			return fmt.Errorf("%w: agreement %s was already accepted", domain.ErrInvalidTransition, id)
		}

		now := s.d.Now()
		n, err := tx.Agreements().Transition(ctx, ag.ID, domain.AgreementPending, domain.AgreementRejected, now)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: agreement %s changed concurrently", domain.ErrConflict, id)
		}
		ag.Status = domain.AgreementRejected
		ag.DecidedAt = &now
		ag.ActiveKey = nil
		out, applied = ag, true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reject agreement: %w", err)
	}
	if applied {
		agreementTransitions.WithLabelValues(string(domain.AgreementRejected)).Inc()
		s.d.Log.Info("agreement rejected",
			zap.String("agreement_id", out.ID),
			zap.String("email", out.UserEmail),
		)
	}
	return out, nil
}

// Mine 会员查询本人已生效的租约；没有时返回 nil
func (s *AgreementService) Mine(ctx context.Context, p domain.Principal, email string) (*domain.Agreement, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if p.Email != email || p.Role != domain.RoleMember {
		return nil, domain.ErrForbidden
	}
	ag, err := s.d.Store.Agreements().FindByEmailAndStatus(ctx, email, domain.AgreementChecked)
	if err != nil {
		return nil, fmt.Errorf("my agreement: %w", err)
	}
	return ag, nil
}
