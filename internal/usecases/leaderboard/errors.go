package leaderboard

import "errors"

var (
	ErrMissingDataStore = errors.New("leaderboard: data store não configurado")
	ErrInvalidLocale    = errors.New("leaderboard: locale inválido")
	ErrInvalidCurrency  = errors.New("leaderboard: moeda inválida")
)
