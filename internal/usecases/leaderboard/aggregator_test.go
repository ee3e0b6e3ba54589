package leaderboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
)

var referenceNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func newStore(id, name string, daysAgo int) domain.Store {
	return domain.Store{
		ID:        id,
		Name:      name,
		URL:       "https://" + id + ".example.com/",
		CreatedAt: referenceNow.AddDate(0, 0, -daysAgo),
	}
}

func newTransaction(storeID string, amount float64) domain.Transaction {
	return domain.Transaction{
		StoreID:   storeID,
		Amount:    decimal.NewFromFloat(amount),
		CreatedAt: referenceNow.Add(-time.Hour),
	}
}

func TestComputeStats(t *testing.T) {
	t.Run("Agrega receita, pedidos e crescimento por loja", func(t *testing.T) {
		stores := []domain.Store{newStore("s1", "Loja 1", 10)}
		transactions := []domain.Transaction{
			newTransaction("s1", 100),
			newTransaction("s1", 50),
		}

		stats := ComputeStats(stores, transactions, referenceNow)

		require.Len(t, stats, 1)
		assert.True(t, decimal.NewFromInt(150).Equal(stats[0].Revenue))
		assert.Equal(t, 2, stats[0].Orders)
		assert.Equal(t, 10, stats[0].DaysActive)
		assert.True(t, decimal.NewFromInt(15).Equal(stats[0].Growth))
	})

	t.Run("Loja sem transações tem tudo zerado", func(t *testing.T) {
		stores := []domain.Store{newStore("s1", "Loja 1", 5), newStore("s2", "Loja 2", 3)}

		stats := ComputeStats(stores, []domain.Transaction{newTransaction("s1", 10)}, referenceNow)

		require.Len(t, stats, 2)
		assert.Equal(t, "s2", stats[1].ID)
		assert.True(t, stats[1].Revenue.IsZero())
		assert.Equal(t, 0, stats[1].Orders)
		assert.True(t, stats[1].Growth.IsZero())
	})

	t.Run("Mantém a ordem das lojas e ignora transações de lojas desconhecidas", func(t *testing.T) {
		stores := []domain.Store{newStore("b", "B", 2), newStore("a", "A", 2)}
		transactions := []domain.Transaction{
			newTransaction("a", 500),
			newTransaction("ghost", 1000),
		}

		stats := ComputeStats(stores, transactions, referenceNow)

		require.Len(t, stats, 2)
		assert.Equal(t, "b", stats[0].ID)
		assert.Equal(t, "a", stats[1].ID)
		assert.True(t, decimal.NewFromInt(500).Equal(TotalRevenue(stats)))
	})

	t.Run("Sem lojas retorna lista vazia", func(t *testing.T) {
		stats := ComputeStats(nil, []domain.Transaction{newTransaction("x", 1)}, referenceNow)
		assert.Empty(t, stats)
	})

	t.Run("Loja criada hoje conta como um dia ativo", func(t *testing.T) {
		store := newStore("s1", "Loja 1", 0)
		stats := ComputeStats([]domain.Store{store}, []domain.Transaction{newTransaction("s1", 80)}, referenceNow)

		assert.Equal(t, 1, stats[0].DaysActive)
		assert.True(t, decimal.NewFromInt(80).Equal(stats[0].Growth))
	})
}

func TestDaysActive(t *testing.T) {
	tests := []struct {
		name      string
		createdAt time.Time
		want      int
	}{
		{name: "Dez dias completos", createdAt: referenceNow.AddDate(0, 0, -10), want: 10},
		{name: "Dia parcial é truncado", createdAt: referenceNow.Add(-36 * time.Hour), want: 1},
		{name: "Menos de um dia vira um", createdAt: referenceNow.Add(-time.Minute), want: 1},
		{name: "Data no futuro vira um", createdAt: referenceNow.AddDate(0, 0, 3), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysActive(tt.createdAt, referenceNow))
		})
	}
}

func TestSortStats(t *testing.T) {
	stats := []domain.StoreStat{
		{Store: domain.Store{ID: "a"}, Revenue: decimal.NewFromInt(100), Orders: 5, Growth: decimal.NewFromInt(1)},
		{Store: domain.Store{ID: "b"}, Revenue: decimal.NewFromInt(300), Orders: 1, Growth: decimal.NewFromInt(30)},
		{Store: domain.Store{ID: "c"}, Revenue: decimal.NewFromInt(200), Orders: 9, Growth: decimal.NewFromInt(2)},
	}

	ids := func(sorted []domain.StoreStat) []string {
		result := make([]string, 0, len(sorted))
		for _, stat := range sorted {
			result = append(result, stat.ID)
		}
		return result
	}

	tests := []struct {
		name   string
		metric domain.Metric
		want   []string
	}{
		{name: "Receita", metric: domain.MetricRevenue, want: []string{"b", "c", "a"}},
		{name: "Pedidos", metric: domain.MetricOrders, want: []string{"c", "a", "b"}},
		{name: "Crescimento", metric: domain.MetricGrowth, want: []string{"b", "c", "a"}},
		{name: "Métrica desconhecida mantém a ordem", metric: domain.Metric("visits"), want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted := SortStats(stats, tt.metric)

			assert.Equal(t, tt.want, ids(sorted))
			assert.ElementsMatch(t, ids(stats), ids(sorted))
		})
	}

	t.Run("Não altera o slice de entrada", func(t *testing.T) {
		_ = SortStats(stats, domain.MetricRevenue)
		assert.Equal(t, []string{"a", "b", "c"}, ids(stats))
	})

	t.Run("Empates preservam a ordem de entrada", func(t *testing.T) {
		tied := []domain.StoreStat{
			{Store: domain.Store{ID: "x"}, Orders: 2},
			{Store: domain.Store{ID: "y"}, Orders: 3},
			{Store: domain.Store{ID: "z"}, Orders: 2},
		}

		assert.Equal(t, []string{"y", "x", "z"}, ids(SortStats(tied, domain.MetricOrders)))
	})

	t.Run("Resultado não crescente pela métrica", func(t *testing.T) {
		sorted := SortStats(stats, domain.MetricRevenue)
		for i := 1; i < len(sorted); i++ {
			assert.True(t, sorted[i-1].Revenue.GreaterThanOrEqual(sorted[i].Revenue))
		}
	})
}
