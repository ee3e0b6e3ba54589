package leaderboard

import (
	"time"

	"github.com/vfg2006/store-leaderboard-api/internal/domain"
)

// DataStore é a fonte externa de lojas e transações. O leaderboard apenas lê esses dados.
type DataStore interface {
	ListStores() ([]domain.Store, error)
	// ListTransactions retorna as transações criadas a partir de since. since nil retorna todas.
	ListTransactions(since *time.Time) ([]domain.Transaction, error)
}

// GrowthBadger produz o percentual exibido no badge de crescimento de cada linha da tabela
type GrowthBadger interface {
	Badge(stat domain.StoreStat) float64
}
