package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metric é a dimensão usada para ordenar e exibir o leaderboard
type Metric string

const (
	MetricRevenue Metric = "revenue"
	MetricOrders  Metric = "orders"
	MetricGrowth  Metric = "growth"
)

// TimeRange é o filtro de período selecionado pelo usuário
type TimeRange string

const (
	TimeRangeAll     TimeRange = "all"
	TimeRange7Days   TimeRange = "7d"
	TimeRange30Days  TimeRange = "30d"
	TimeRange90Days  TimeRange = "90d"
	defaultTimeRange           = TimeRangeAll
)

var timeRangeDays = map[TimeRange]int{
	TimeRange7Days:  7,
	TimeRange30Days: 30,
	TimeRange90Days: 90,
}

// ParseTimeRange converte o valor recebido na query. Valores desconhecidos viram "all".
func ParseTimeRange(value string) TimeRange {
	tr := TimeRange(value)
	if _, ok := timeRangeDays[tr]; ok {
		return tr
	}
	return defaultTimeRange
}

// Since retorna o início do período em relação a now, ou nil quando não há filtro
func (tr TimeRange) Since(now time.Time) *time.Time {
	days, ok := timeRangeDays[tr]
	if !ok {
		return nil
	}
	since := now.AddDate(0, 0, -days)
	return &since
}

// StoreStat é o agregado calculado por loja a cada renderização
type StoreStat struct {
	Store
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
	// Growth é receita por dia ativo, não uma taxa de crescimento real
	Growth     decimal.Decimal `json:"growth"`
	DaysActive int             `json:"days_active"`
}

type PodiumEntry struct {
	Place   int    `json:"place"`
	StoreID string `json:"store_id,omitempty"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Value   string `json:"value"`
	Empty   bool   `json:"empty"`
}

type TableRow struct {
	Rank          int     `json:"rank"`
	StoreID       string  `json:"store_id"`
	Name          string  `json:"name"`
	URL           string  `json:"url"`
	Revenue       string  `json:"revenue"`
	Orders        int     `json:"orders"`
	GrowthPercent float64 `json:"growth_percent"`
	GrowthBadge   string  `json:"growth_badge"`
}

type LeaderboardSummary struct {
	TotalStores  int    `json:"total_stores"`
	TotalRevenue string `json:"total_revenue"`
}

type LeaderboardFilter struct {
	Metric    Metric
	TimeRange TimeRange
}

type Leaderboard struct {
	Metric      Metric             `json:"metric"`
	TimeRange   TimeRange          `json:"time_range"`
	Podium      []PodiumEntry      `json:"podium"`
	Table       []TableRow         `json:"table"`
	Summary     LeaderboardSummary `json:"summary"`
	GeneratedAt time.Time          `json:"generated_at"`
}
