// Package leaderboard calcula e formata o ranking de lojas por receita, pedidos ou crescimento
package leaderboard

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
)

type LeaderboardService interface {
	GetLeaderboard(filter domain.LeaderboardFilter) (*domain.Leaderboard, error)
}

type Service struct {
	dataStore DataStore
	renderer  *Renderer
	now       func() time.Time
}

type Option func(*Service)

func WithRenderer(renderer *Renderer) Option {
	return func(s *Service) {
		s.renderer = renderer
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService exige o data store; sem ele nenhum cálculo é possível
func NewService(dataStore DataStore, opts ...Option) (*Service, error) {
	if dataStore == nil {
		return nil, ErrMissingDataStore
	}

	s := &Service{
		dataStore: dataStore,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.renderer == nil {
		s.renderer = NewRenderer(nil, nil)
	}

	return s, nil
}

// rankStores recalcula as estatísticas de todas as lojas e ordena pela métrica do filtro.
// Retorna também o total de lojas lidas do data store.
func (s *Service) rankStores(filter domain.LeaderboardFilter) ([]domain.StoreStat, int, error) {
	now := s.now()

	stores, err := s.dataStore.ListStores()
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao buscar lojas: %w", err)
	}

	transactions, err := s.dataStore.ListTransactions(filter.TimeRange.Since(now))
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao buscar transações: %w", err)
	}

	stats := ComputeStats(stores, transactions, now)

	return SortStats(stats, filter.Metric), len(stores), nil
}

func (s *Service) GetLeaderboard(filter domain.LeaderboardFilter) (*domain.Leaderboard, error) {
	if filter.Metric == "" {
		filter.Metric = domain.MetricRevenue
	}
	if filter.TimeRange == "" {
		filter.TimeRange = domain.TimeRangeAll
	}

	sorted, totalStores, err := s.rankStores(filter)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"metric":     filter.Metric,
		"time_range": filter.TimeRange,
		"stores":     totalStores,
	}).Debug("Leaderboard calculado")

	return &domain.Leaderboard{
		Metric:      filter.Metric,
		TimeRange:   filter.TimeRange,
		Podium:      s.renderer.Podium(sorted, filter.Metric),
		Table:       s.renderer.Table(sorted),
		Summary:     s.renderer.Summary(totalStores, sorted),
		GeneratedAt: s.now(),
	}, nil
}

var _ LeaderboardService = (*Service)(nil)
