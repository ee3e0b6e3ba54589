// Package scheduler contém os serviços de agendamento do leaderboard
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/repository"
	"github.com/vfg2006/store-leaderboard-api/internal/config"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/leaderboard"
	"github.com/vfg2006/store-leaderboard-api/pkg/utils"
)

type LeaderboardSnapshotConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// LeaderboardSnapshotService grava diariamente a posição de cada loja no ranking de receita do mês
type LeaderboardSnapshotService struct {
	scheduler           *gocron.Scheduler
	dataStore           leaderboard.DataStore
	rankingRepo         repository.StoreRankingRepository
	config              LeaderboardSnapshotConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncStores      int
}

func NewLeaderboardSnapshotService(
	dataStore leaderboard.DataStore,
	rankingRepo repository.StoreRankingRepository,
	cfg *config.Config,
) *LeaderboardSnapshotService {
	snapshotConfig := LeaderboardSnapshotConfig{
		CronSchedule: cfg.LeaderboardSnapshot.CronSchedule,
		SyncEnabled:  cfg.LeaderboardSnapshot.SyncEnabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": snapshotConfig.CronSchedule,
		"enabled":       snapshotConfig.SyncEnabled,
	}).Info("Configuração do agendador de snapshot do leaderboard carregada")

	return &LeaderboardSnapshotService{
		scheduler:   gocron.NewScheduler(time.Local),
		dataStore:   dataStore,
		rankingRepo: rankingRepo,
		config:      snapshotConfig,
	}
}

func (s *LeaderboardSnapshotService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Cron de snapshot do leaderboard desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de snapshot do leaderboard")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.UpdateSnapshot(); err != nil {
			logrus.WithError(err).Error("Erro na atualização do snapshot do leaderboard")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar snapshot do leaderboard: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de snapshot do leaderboard")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *LeaderboardSnapshotService) UpdateSnapshot() error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Snapshot do leaderboard já está em execução")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando snapshot do leaderboard")

	rankings, err := s.processSnapshotWithDate(time.Now())
	if err != nil {
		return err
	}

	s.syncMutex.Lock()
	s.lastSyncStores = len(rankings)
	s.syncMutex.Unlock()

	logrus.WithField("stores", len(rankings)).Info("Snapshot do leaderboard concluído")

	return nil
}

// processSnapshotWithDate calcula o ranking do mês de ontem (do primeiro dia até o fim de ontem)
// e compara com o snapshot gravado anteriormente para o mesmo mês
func (s *LeaderboardSnapshotService) processSnapshotWithDate(processingDate time.Time) ([]*domain.StoreRankingItem, error) {
	yesterday := processingDate.AddDate(0, 0, -1)
	firstDayOfMonth := utils.FirstDayOfMonth(yesterday)
	endOfPeriod := utils.FirstDayOfMonth(yesterday).AddDate(0, 0, yesterday.Day())
	month := utils.MonthKey(yesterday)

	stores, err := s.dataStore.ListStores()
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar lojas para o snapshot: %w", err)
	}

	if len(stores) == 0 {
		logrus.Info("Nenhuma loja encontrada para o snapshot do leaderboard")
		return []*domain.StoreRankingItem{}, nil
	}

	transactions, err := s.dataStore.ListTransactions(&firstDayOfMonth)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar transações para o snapshot: %w", err)
	}

	inPeriod := make([]domain.Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		if transaction.CreatedAt.Before(endOfPeriod) {
			inPeriod = append(inPeriod, transaction)
		}
	}

	stats := leaderboard.SortStats(
		leaderboard.ComputeStats(stores, inPeriod, yesterday),
		domain.MetricRevenue,
	)

	previous, err := s.rankingRepo.GetStoreRanking(month)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar snapshot anterior: %w", err)
	}

	rankingsBeforeUpdate := make(map[string]domain.StoreRankingItem, len(previous.Ranking))
	for _, item := range previous.Ranking {
		rankingsBeforeUpdate[item.StoreID] = item
	}

	updatedRankings := make([]*domain.StoreRankingItem, 0, len(stats))
	for _, stat := range stats {
		updatedRankings = append(updatedRankings, &domain.StoreRankingItem{
			StoreID:   stat.ID,
			Month:     month,
			StoreName: stat.Name,
			Revenue:   stat.Revenue,
			Orders:    stat.Orders,
		})
	}

	updatePositions(updatedRankings, rankingsBeforeUpdate)

	if err := s.rankingRepo.SaveOrUpdateStoreRanking(updatedRankings); err != nil {
		return nil, fmt.Errorf("erro ao salvar snapshot do leaderboard: %w", err)
	}

	return updatedRankings, nil
}

// updatePositions espera o slice já ordenado por receita
func updatePositions(
	updatedRankings []*domain.StoreRankingItem,
	rankingsBeforeUpdate map[string]domain.StoreRankingItem,
) {
	for i, ranking := range updatedRankings {
		ranking.Position = i + 1

		rankingBefore, exists := rankingsBeforeUpdate[ranking.StoreID]
		if exists {
			ranking.PositionChange = rankingBefore.Position - ranking.Position
			ranking.PreviousPosition = rankingBefore.Position
		}
	}
}

// TriggerManualSync inicia manualmente um snapshot do leaderboard
func (s *LeaderboardSnapshotService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Snapshot do leaderboard já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando snapshot manual do leaderboard")
	go func() {
		if err := s.UpdateSnapshot(); err != nil {
			logrus.WithError(err).Error("Erro no snapshot manual do leaderboard")
		}
	}()
}

// GetStatus retorna o status atual do agendador
func (s *LeaderboardSnapshotService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_stores":       s.lastSyncStores,
	}
}
