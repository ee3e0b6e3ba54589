package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/store"
	"github.com/vfg2006/store-leaderboard-api/pkg/apiErrors"
)

func CreateStore(service store.StoreService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreateStoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		created, err := service.CreateStore(&req)
		if err != nil {
			handleStoreError(w, err)
			return
		}

		logrus.WithFields(logrus.Fields{"store_id": created.ID, "name": created.Name}).Info("Loja criada")

		if err := writeJSON(w, http.StatusCreated, created); err != nil {
			logrus.Error(err)
		}
	}
}

// RecordTransaction registra uma venda na loja do path
func RecordTransaction(service store.StoreService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if storeID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da loja não fornecido", nil)
			return
		}

		var req domain.CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		transaction, err := service.RecordTransaction(storeID, &req)
		if err != nil {
			handleStoreError(w, err)
			return
		}

		if err := writeJSON(w, http.StatusCreated, transaction); err != nil {
			logrus.Error(err)
		}
	}
}

func handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrStoreNameRequired):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
	case errors.Is(err, store.ErrNegativeAmount):
		apiErrors.WriteError(w, apiErrors.ErrInvalidAmount, err.Error(), nil)
	case errors.Is(err, store.ErrStoreNotFound):
		apiErrors.WriteError(w, apiErrors.ErrStoreNotFound, err.Error(), nil)
	default:
		logrus.WithError(err).Error("Erro na operação de loja")
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao gravar dados da loja", nil)
	}
}
