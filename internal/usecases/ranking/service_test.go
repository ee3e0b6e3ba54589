package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestStoreRankingService_GetStoreRanking(t *testing.T) {
	// 1º de março: o mês padrão é o de ontem (fevereiro)
	now := func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

	tests := []struct {
		name      string
		month     string
		wantMonth string
		wantErr   error
	}{
		{name: "Mês vazio usa o mês de ontem", month: "", wantMonth: "02-2024"},
		{name: "Mês informado", month: "12-2023", wantMonth: "12-2023"},
		{name: "Formato inválido", month: "2023-12", wantErr: ErrInvalidMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockStoreRankingRepository(ctrl)
			service := &StoreRankingService{StoreRankingRepository: repo, now: now}

			if tt.wantErr != nil {
				_, err := service.GetStoreRanking(tt.month)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			repo.EXPECT().GetStoreRanking(tt.wantMonth).Return(&domain.StoreRankingResponse{Month: tt.wantMonth}, nil)

			result, err := service.GetStoreRanking(tt.month)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMonth, result.Month)
		})
	}
}
