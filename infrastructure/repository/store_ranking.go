package repository

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
)

const (
	storeRankingTable = "store_ranking sr"
)

var storeRankingColumns = []string{
	"sr.id",
	"sr.store_id",
	"sr.month",
	"sr.store_name",
	"sr.revenue",
	"sr.orders",
	"sr.position",
	"sr.position_change",
	"sr.previous_position",
	"sr.created_at",
	"sr.updated_at",
}

type StoreRankingRepository interface {
	GetStoreRanking(month string) (*domain.StoreRankingResponse, error)
	SaveOrUpdateStoreRanking(rankings []*domain.StoreRankingItem) error
}

type storeRankingRepository struct {
	conn *postgres.Connection
}

func NewStoreRankingRepository(conn *postgres.Connection) StoreRankingRepository {
	return &storeRankingRepository{
		conn: conn,
	}
}

func (r *storeRankingRepository) GetStoreRanking(month string) (*domain.StoreRankingResponse, error) {
	sqlQuery, args, err := squirrel.
		Select(storeRankingColumns...).
		From(storeRankingTable).
		Where(squirrel.Eq{"sr.month": month}).
		OrderBy("sr.position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	rankings := make([]domain.StoreRankingItem, 0)
	var lastUpdate time.Time

	for rows.Next() {
		item, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear item do ranking: %w", err)
		}

		rankings = append(rankings, *item)

		// Manter o último update mais recente
		if item.UpdatedAt.After(lastUpdate) {
			lastUpdate = item.UpdatedAt
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	if lastUpdate.IsZero() {
		lastUpdate = time.Now()
	}

	return &domain.StoreRankingResponse{
		Month:      month,
		Ranking:    rankings,
		LastUpdate: lastUpdate,
	}, nil
}

func (r *storeRankingRepository) SaveOrUpdateStoreRanking(rankings []*domain.StoreRankingItem) error {
	if len(rankings) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert("store_ranking").
		Columns(
			"store_id",
			"month",
			"store_name",
			"revenue",
			"orders",
			"position",
			"position_change",
			"previous_position",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, ranking := range rankings {
		query = query.Values(
			ranking.StoreID,
			ranking.Month,
			ranking.StoreName,
			ranking.Revenue,
			ranking.Orders,
			ranking.Position,
			ranking.PositionChange,
			ranking.PreviousPosition,
		)
	}

	query = query.Suffix(`
		ON CONFLICT (store_id, month) DO UPDATE SET
			store_name = EXCLUDED.store_name,
			revenue = EXCLUDED.revenue,
			orders = EXCLUDED.orders,
			position = EXCLUDED.position,
			position_change = EXCLUDED.position_change,
			previous_position = EXCLUDED.previous_position,
			updated_at = CURRENT_TIMESTAMP
	`)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar query de inserção: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *storeRankingRepository) scan(row rowScanner) (*domain.StoreRankingItem, error) {
	item := &domain.StoreRankingItem{}

	err := row.Scan(
		&item.ID,
		&item.StoreID,
		&item.Month,
		&item.StoreName,
		&item.Revenue,
		&item.Orders,
		&item.Position,
		&item.PositionChange,
		&item.PreviousPosition,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return item, nil
}
