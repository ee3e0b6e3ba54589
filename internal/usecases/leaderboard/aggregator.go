package leaderboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
)

const day = 24 * time.Hour

type storeTotals struct {
	revenue decimal.Decimal
	orders  int
}

// ComputeStats agrega receita, pedidos e crescimento por loja.
// A ordem do resultado é a mesma de stores; transações de lojas desconhecidas são ignoradas.
func ComputeStats(stores []domain.Store, transactions []domain.Transaction, now time.Time) []domain.StoreStat {
	totals := make(map[string]*storeTotals, len(stores))
	for _, store := range stores {
		totals[store.ID] = &storeTotals{revenue: decimal.Zero}
	}

	for _, transaction := range transactions {
		total, exists := totals[transaction.StoreID]
		if !exists {
			continue
		}
		total.revenue = total.revenue.Add(transaction.Amount)
		total.orders++
	}

	stats := make([]domain.StoreStat, 0, len(stores))
	for _, store := range stores {
		total := totals[store.ID]
		days := DaysActive(store.CreatedAt, now)

		stats = append(stats, domain.StoreStat{
			Store:      store,
			Revenue:    total.revenue,
			Orders:     total.orders,
			Growth:     total.revenue.Div(decimal.NewFromInt(int64(days))),
			DaysActive: days,
		})
	}

	return stats
}

// DaysActive retorna os dias completos desde createdAt, com mínimo de 1
func DaysActive(createdAt, now time.Time) int {
	days := int(now.Sub(createdAt) / day)
	if days < 1 {
		return 1
	}
	return days
}

// SortStats ordena de forma decrescente e estável pela métrica.
// Métrica desconhecida mantém a ordem de entrada. O slice recebido não é alterado.
func SortStats(stats []domain.StoreStat, metric domain.Metric) []domain.StoreStat {
	sorted := make([]domain.StoreStat, len(stats))
	copy(sorted, stats)

	var less func(i, j int) bool
	switch metric {
	case domain.MetricRevenue:
		less = func(i, j int) bool { return sorted[i].Revenue.GreaterThan(sorted[j].Revenue) }
	case domain.MetricOrders:
		less = func(i, j int) bool { return sorted[i].Orders > sorted[j].Orders }
	case domain.MetricGrowth:
		less = func(i, j int) bool { return sorted[i].Growth.GreaterThan(sorted[j].Growth) }
	default:
		return sorted
	}

	sort.SliceStable(sorted, less)
	return sorted
}

// TotalRevenue soma a receita de todas as lojas
func TotalRevenue(stats []domain.StoreStat) decimal.Decimal {
	total := decimal.Zero
	for _, stat := range stats {
		total = total.Add(stat.Revenue)
	}
	return total
}
