// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
	"github.com/vfg2006/store-leaderboard-api/pkg/utils"
)

const (
	storesTable       = "stores s"
	transactionsTable = "transactions t"

	foreignKeyViolation = "23503"
)

var ErrStoreNotFound = errors.New("loja não encontrada")

type StoreRepository interface {
	ListStores() ([]domain.Store, error)
	ListTransactions(since *time.Time) ([]domain.Transaction, error)
	GetStoreByID(storeID string) (*domain.Store, error)
	CreateStore(request *domain.CreateStoreRequest) (*domain.Store, error)
	CreateTransaction(storeID string, request *domain.CreateTransactionRequest) (*domain.Transaction, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type storeRepository struct {
	conn *postgres.Connection
}

func NewStoreRepository(conn *postgres.Connection) StoreRepository {
	return &storeRepository{
		conn: conn,
	}
}

func (r *storeRepository) ListStores() ([]domain.Store, error) {
	query, args, err := squirrel.
		Select("s.id", "s.name", "s.url", "s.created_at").
		From(storesTable).
		OrderBy("s.created_at ASC", "s.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	stores := make([]domain.Store, 0)
	for rows.Next() {
		var store domain.Store
		if err := rows.Scan(&store.ID, &store.Name, &store.URL, &store.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear loja: %w", err)
		}
		stores = append(stores, store)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return stores, nil
}

func (r *storeRepository) ListTransactions(since *time.Time) ([]domain.Transaction, error) {
	queryBuilder := squirrel.
		Select("t.id", "t.store_id", "t.amount", "t.created_at").
		From(transactionsTable).
		PlaceholderFormat(squirrel.Dollar)

	if since != nil {
		queryBuilder = queryBuilder.Where(squirrel.GtOrEq{"t.created_at": *since})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var transaction domain.Transaction
		if err := rows.Scan(&transaction.ID, &transaction.StoreID, &transaction.Amount, &transaction.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear transação: %w", err)
		}
		transactions = append(transactions, transaction)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return transactions, nil
}

func (r *storeRepository) GetStoreByID(storeID string) (*domain.Store, error) {
	query, args, err := squirrel.
		Select("s.id", "s.name", "s.url", "s.created_at").
		From(storesTable).
		Where(squirrel.Eq{"s.id": storeID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var store domain.Store
	err = r.conn.QueryRow(query, args...).Scan(&store.ID, &store.Name, &store.URL, &store.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear loja: %w", err)
	}

	return &store, nil
}

func (r *storeRepository) CreateStore(request *domain.CreateStoreRequest) (*domain.Store, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id da loja: %w", err)
	}

	store := &domain.Store{
		ID:        id,
		Name:      request.Name,
		URL:       request.URL,
		CreatedAt: time.Now(),
	}
	if request.CreatedAt != nil {
		store.CreatedAt = *request.CreatedAt
	}

	query, args, err := squirrel.
		Insert("stores").
		Columns("id", "name", "url", "created_at").
		Values(store.ID, store.Name, store.URL, store.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	if _, err = r.conn.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("erro ao inserir loja: %w", err)
	}

	return store, nil
}

func (r *storeRepository) CreateTransaction(storeID string, request *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id da transação: %w", err)
	}

	transaction := &domain.Transaction{
		ID:        id,
		StoreID:   storeID,
		Amount:    request.Amount,
		CreatedAt: time.Now(),
	}
	if request.CreatedAt != nil {
		transaction.CreatedAt = *request.CreatedAt
	}

	query, args, err := squirrel.
		Insert("transactions").
		Columns("id", "store_id", "amount", "created_at").
		Values(transaction.ID, transaction.StoreID, transaction.Amount, transaction.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	if _, err = r.conn.Exec(query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("erro ao inserir transação: %w", err)
	}

	return transaction, nil
}

// DeleteAll remove transações, lojas e snapshots de ranking na mesma transação.
// Retorna a quantidade de linhas de ranking removidas.
func (r *storeRepository) DeleteAll(ctx context.Context) (int64, error) {
	var rankingRemoved int64

	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"transactions", "stores", "store_ranking"} {
			query, args, err := squirrel.Delete(table).ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir query de remoção: %w", err)
			}

			result, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("erro ao remover %s: %w", table, err)
			}

			if table == "store_ranking" {
				if rankingRemoved, err = result.RowsAffected(); err != nil {
					return fmt.Errorf("erro ao contar ranking removido: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return rankingRemoved, nil
}
