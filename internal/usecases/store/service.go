package store

import (
	"errors"
	"strings"

	"github.com/vfg2006/store-leaderboard-api/infrastructure/repository"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
)

type StoreService interface {
	CreateStore(request *domain.CreateStoreRequest) (*domain.Store, error)
	RecordTransaction(storeID string, request *domain.CreateTransactionRequest) (*domain.Transaction, error)
}

type Service struct {
	storeRepo repository.StoreRepository
}

func NewService(storeRepo repository.StoreRepository) StoreService {
	return &Service{
		storeRepo: storeRepo,
	}
}

func (s *Service) CreateStore(request *domain.CreateStoreRequest) (*domain.Store, error) {
	request.Name = strings.TrimSpace(request.Name)
	if request.Name == "" {
		return nil, ErrStoreNameRequired
	}

	request.URL = strings.TrimSpace(request.URL)

	return s.storeRepo.CreateStore(request)
}

// RecordTransaction registra uma venda. O valor precisa ser não negativo e a loja precisa existir.
func (s *Service) RecordTransaction(storeID string, request *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	if request.Amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	store, err := s.storeRepo.GetStoreByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	transaction, err := s.storeRepo.CreateTransaction(storeID, request)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	return transaction, nil
}
