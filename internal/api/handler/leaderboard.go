package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/leaderboard"
	"github.com/vfg2006/store-leaderboard-api/pkg/apiErrors"
)

// GetLeaderboard recalcula o leaderboard a cada requisição.
// Query: metric (revenue, orders, growth) e range (all, 7d, 30d, 90d).
func GetLeaderboard(service leaderboard.LeaderboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		filter := domain.LeaderboardFilter{
			Metric:    domain.Metric(query.Get("metric")),
			TimeRange: domain.ParseTimeRange(query.Get("range")),
		}

		result, err := service.GetLeaderboard(filter)
		if err != nil {
			logrus.WithError(err).Error("Erro ao calcular leaderboard")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao calcular leaderboard", nil)
			return
		}

		if err := writeJSON(w, http.StatusOK, result); err != nil {
			logrus.WithError(err).Error("Erro ao enviar leaderboard")
		}
	}
}
