package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"vobon-server/internal/core/cache"
	"vobon-server/internal/domain"
)

const statsCacheKey = "vobon:admin-stats"

type AdminStats struct {
	Users               int64 `json:"users"`
	Members             int64 `json:"members"`
	Admins              int64 `json:"admins"`
	Apartments          int64 `json:"apartments"`
	AvailableApartments int64 `json:"availableApartments"`
	RentedApartments    int64 `json:"rentedApartments"`
	AvailablePercentage int   `json:"availablePercentage"`
	RentedPercentage    int   `json:"rentedPercentage"`
}

// StatsService 管理端聚合统计；配置了 redis 时缓存 ttl
type StatsService struct {
	d     Deps
	cache *cache.Cache
	ttl   time.Duration
}

func NewStatsService(d Deps, c *cache.Cache, ttl time.Duration) *StatsService {
	return &StatsService{d: d.withDefaults(), cache: c, ttl: ttl}
}

func (s *StatsService) Stats(ctx context.Context) (*AdminStats, error) {
	if s.cache == nil {
		return s.load(ctx)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, statsCacheKey, s.ttl, s.load)
}

func (s *StatsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		s.d.Log.Warn("stats cache invalidate failed", zap.Error(err))
	}
}

func (s *StatsService) load(ctx context.Context) (*AdminStats, error) {
	roles, err := s.d.Store.Users().CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	statuses, err := s.d.Store.Apartments().CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count apartments: %w", err)
	}
	return computeStats(roles, statuses), nil
}

func computeStats(roles map[domain.Role]int64, statuses map[domain.ApartmentStatus]int64) *AdminStats {
	out := &AdminStats{
		Users:               roles[domain.RoleUser],
		Members:             roles[domain.RoleMember],
		Admins:              roles[domain.RoleAdmin],
		AvailableApartments: statuses[domain.ApartmentAvailable],
		RentedApartments:    statuses[domain.ApartmentRented],
	}
	for _, n := range statuses {
		out.Apartments += n
	}
	out.AvailablePercentage = percent(out.AvailableApartments, out.Apartments)
	out.RentedPercentage = percent(out.RentedApartments, out.Apartments)
	return out
}

// percent 四舍五入到整数；total 为 0 时为 0
func percent(part, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
