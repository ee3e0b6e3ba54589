// Package resetting implementa o reset administrativo: apaga lojas, transações e snapshots
// e encerra todas as sessões ativas
package resetting

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/repository"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/session"
)

type ResetResult struct {
	RankingRowsRemoved int64 `json:"ranking_rows_removed"`
	SessionEpoch       int64 `json:"session_epoch"`
}

type Resetter interface {
	Reset(ctx context.Context, requestedBy int) (*ResetResult, error)
}

type Service struct {
	storeRepo repository.StoreRepository
	sessions  session.Store
}

func NewService(storeRepo repository.StoreRepository, sessions session.Store) Resetter {
	return &Service{
		storeRepo: storeRepo,
		sessions:  sessions,
	}
}

// Reset apaga os dados e só então revoga as sessões. Se a remoção falhar, ninguém é deslogado.
func (s *Service) Reset(ctx context.Context, requestedBy int) (*ResetResult, error) {
	logger := logrus.WithField("requested_by", requestedBy)
	logger.Warn("Iniciando reset completo de lojas e transações")

	removed, err := s.storeRepo.DeleteAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao remover lojas, transações e ranking")
	}

	epoch, err := s.sessions.RevokeAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao encerrar sessões")
	}

	logger.WithFields(logrus.Fields{
		"ranking_rows_removed": removed,
		"session_epoch":        epoch,
	}).Warn("Reset concluído, todas as sessões foram encerradas")

	return &ResetResult{
		RankingRowsRemoved: removed,
		SessionEpoch:       epoch,
	}, nil
}
