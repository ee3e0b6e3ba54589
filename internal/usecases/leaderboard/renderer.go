package leaderboard

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
)

const (
	podiumSize       = 3
	firstTableRank   = podiumSize + 1
	emptyPodiumName  = "-"
	badgeMinPercent  = -15.0
	badgeSpanPercent = 40.0
)

// Renderer transforma estatísticas ordenadas em registros de exibição (pódio, tabela e resumo)
type Renderer struct {
	currency *CurrencyFormatter
	badger   GrowthBadger
}

func NewRenderer(currency *CurrencyFormatter, badger GrowthBadger) *Renderer {
	if currency == nil {
		currency = DefaultCurrencyFormatter()
	}
	if badger == nil {
		badger = NewRandomBadger(0)
	}

	return &Renderer{
		currency: currency,
		badger:   badger,
	}
}

// Podium retorna sempre 3 posições; posições sem loja viram placeholder ("-", valor zero)
func (r *Renderer) Podium(sorted []domain.StoreStat, metric domain.Metric) []domain.PodiumEntry {
	podium := make([]domain.PodiumEntry, 0, podiumSize)

	for i := 0; i < podiumSize; i++ {
		if i >= len(sorted) {
			podium = append(podium, domain.PodiumEntry{
				Place: i + 1,
				Name:  emptyPodiumName,
				Value: r.currency.Format(decimal.Zero),
				Empty: true,
			})
			continue
		}

		stat := sorted[i]
		podium = append(podium, domain.PodiumEntry{
			Place:   i + 1,
			StoreID: stat.ID,
			Name:    stat.Name,
			URL:     FormatURL(stat.URL),
			Value:   r.MetricValue(stat, metric),
		})
	}

	return podium
}

// MetricValue formata o valor exibido no pódio conforme a métrica ativa
func (r *Renderer) MetricValue(stat domain.StoreStat, metric domain.Metric) string {
	switch metric {
	case domain.MetricOrders:
		return fmt.Sprintf("%d orders", stat.Orders)
	case domain.MetricGrowth:
		return r.currency.Format(stat.Growth) + "/day"
	default:
		return r.currency.Format(stat.Revenue)
	}
}

// Table retorna as lojas após o pódio, com ranking sequencial a partir de 4
func (r *Renderer) Table(sorted []domain.StoreStat) []domain.TableRow {
	if len(sorted) <= podiumSize {
		return []domain.TableRow{}
	}

	rows := make([]domain.TableRow, 0, len(sorted)-podiumSize)
	for i, stat := range sorted[podiumSize:] {
		percent := r.badger.Badge(stat)

		rows = append(rows, domain.TableRow{
			Rank:          firstTableRank + i,
			StoreID:       stat.ID,
			Name:          stat.Name,
			URL:           FormatURL(stat.URL),
			Revenue:       r.currency.Format(stat.Revenue),
			Orders:        stat.Orders,
			GrowthPercent: percent,
			GrowthBadge:   fmt.Sprintf("%+.1f%%", percent),
		})
	}

	return rows
}

func (r *Renderer) Summary(totalStores int, stats []domain.StoreStat) domain.LeaderboardSummary {
	return domain.LeaderboardSummary{
		TotalStores:  totalStores,
		TotalRevenue: r.currency.Format(TotalRevenue(stats)),
	}
}

// RandomBadger gera o percentual cosmético do badge de crescimento no intervalo [-15, 25).
// O valor não tem relação com a métrica de crescimento da loja.
type RandomBadger struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomBadger cria o gerador com a semente informada. Semente 0 usa o relógio.
func NewRandomBadger(seed int64) *RandomBadger {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &RandomBadger{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (b *RandomBadger) Badge(domain.StoreStat) float64 {
	b.mu.Lock()
	value := badgeMinPercent + b.rng.Float64()*badgeSpanPercent
	b.mu.Unlock()

	return math.Floor(value*10) / 10
}
