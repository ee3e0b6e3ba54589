package handler

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/ranking"
	"github.com/vfg2006/store-leaderboard-api/pkg/apiErrors"
)

// GetStoreRanking retorna o snapshot do ranking de receita do mês (?month=mm-yyyy)
func GetStoreRanking(service ranking.RankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := service.GetStoreRanking(r.URL.Query().Get("month"))
		if err != nil {
			if errors.Is(err, ranking.ErrInvalidMonth) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidMonth, err.Error(), nil)
				return
			}
			logrus.Error("Erro ao buscar ranking das lojas:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar ranking das lojas", nil)
			return
		}

		if err := writeJSON(w, http.StatusOK, result); err != nil {
			logrus.Error("Erro ao enviar resposta do ranking:", err)
		}
	}
}
