package ranking

import (
	"time"

	"github.com/vfg2006/store-leaderboard-api/infrastructure/repository"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
	"github.com/vfg2006/store-leaderboard-api/pkg/utils"
)

type RankingService interface {
	GetStoreRanking(month string) (*domain.StoreRankingResponse, error)
}

type StoreRankingService struct {
	StoreRankingRepository repository.StoreRankingRepository
	now                    func() time.Time
}

func NewStoreRankingService(storeRankingRepository repository.StoreRankingRepository) RankingService {
	return &StoreRankingService{
		StoreRankingRepository: storeRankingRepository,
		now:                    time.Now,
	}
}

// GetStoreRanking retorna o snapshot do mês (mm-yyyy). Mês vazio usa o mês de ontem,
// o mesmo usado pelo job de snapshot.
func (s *StoreRankingService) GetStoreRanking(month string) (*domain.StoreRankingResponse, error) {
	month, err := utils.ParseMonth(month, s.now().AddDate(0, 0, -1))
	if err != nil {
		return nil, ErrInvalidMonth
	}

	ranking, err := s.StoreRankingRepository.GetStoreRanking(month)
	if err != nil {
		return nil, err
	}
	return ranking, nil
}
