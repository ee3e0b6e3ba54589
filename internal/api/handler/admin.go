package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/resetting"
	"github.com/vfg2006/store-leaderboard-api/pkg/apiErrors"
	"github.com/vfg2006/store-leaderboard-api/pkg/middleware"
)

// ResetAll apaga lojas, transações e snapshots e desloga todos os usuários,
// inclusive quem fez a requisição
func ResetAll(service resetting.Resetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		result, err := service.Reset(r.Context(), userClaims.UserID)
		if err != nil {
			logrus.WithError(err).Error("Erro ao executar reset")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao executar reset", nil)
			return
		}

		if err := writeJSON(w, http.StatusOK, result); err != nil {
			logrus.Error(err)
		}
	}
}
