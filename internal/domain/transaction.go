package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction é uma venda vinculada a uma loja. Amount nunca é negativo.
type Transaction struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

type CreateTransactionRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt *time.Time      `json:"created_at"`
}
