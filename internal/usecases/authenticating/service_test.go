package authenticating

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/session"
	sessionmocks "github.com/vfg2006/store-leaderboard-api/infrastructure/session/mocks"
	"github.com/vfg2006/store-leaderboard-api/internal/config"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
	"github.com/vfg2006/store-leaderboard-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "senha-forte"

func activeUser(t *testing.T) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	return &domain.User{
		ID:           7,
		Name:         "Admin",
		Email:        "admin@leaderboard.dev",
		PasswordHash: string(hash),
		Active:       true,
		RoleID:       1,
	}
}

func newTestService(t *testing.T, ctrl *gomock.Controller) (*Service, *mocks.MockUserRepository, session.Store) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	userRepo := mocks.NewMockUserRepository(ctrl)
	sessions := session.NewRedisStore(client, "test:session_epoch")

	service := NewService(userRepo, sessions, &config.Config{SecretKey: "segredo-de-teste"}).(*Service)
	return service, userRepo, sessions
}

func TestService_LoginAndValidateToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, _ := newTestService(t, ctrl)
	user := activeUser(t)

	userRepo.EXPECT().GetUserByEmail("admin@leaderboard.dev").Return(user, nil)

	token, err := service.LoginUser(context.Background(), "  Admin@Leaderboard.dev ", testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, 1, claims.UserRoleID)
	assert.Equal(t, int64(0), claims.SessionEpoch)
}

func TestService_ValidateTokenAfterRevoke(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, sessions := newTestService(t, ctrl)
	ctx := context.Background()

	userRepo.EXPECT().GetUserByEmail(gomock.Any()).Return(activeUser(t), nil).Times(2)

	oldToken, err := service.LoginUser(ctx, "admin@leaderboard.dev", testPassword)
	require.NoError(t, err)

	_, err = sessions.RevokeAll(ctx)
	require.NoError(t, err)

	_, err = service.ValidateToken(ctx, oldToken)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	newToken, err := service.LoginUser(ctx, "admin@leaderboard.dev", testPassword)
	require.NoError(t, err)

	claims, err := service.ValidateToken(ctx, newToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.SessionEpoch)
}

func TestService_ValidateTokenInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, _ := newTestService(t, ctrl)

	_, err := service.ValidateToken(context.Background(), "nao-e-um-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := &Service{cfg: &config.Config{SecretKey: "outro-segredo"}, now: time.Now}
	token, err := other.generateJWT(activeUser(t), 0)
	require.NoError(t, err)

	_, err = service.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidateTokenExpired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, _ := newTestService(t, ctrl)
	service.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	token, err := service.generateJWT(activeUser(t), 0)
	require.NoError(t, err)

	_, err = service.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_LoginUserErrors(t *testing.T) {
	disabled := &domain.User{ID: 3, Email: "off@leaderboard.dev", Active: false}

	tests := []struct {
		name     string
		email    string
		password string
		setup    func(repo *mocks.MockUserRepository)
		wantErr  error
		wantCode string
	}{
		{
			name:     "Dados ausentes",
			email:    "",
			password: "",
			setup:    func(repo *mocks.MockUserRepository) {},
			wantErr:  ErrMissingRequiredData,
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name:     "Usuário não encontrado",
			email:    "ninguem@leaderboard.dev",
			password: testPassword,
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail("ninguem@leaderboard.dev").Return(nil, nil)
			},
			wantErr:  ErrUserNotFound,
			wantCode: apiErrors.ErrUserNotFound,
		},
		{
			name:     "Usuário desativado",
			email:    "off@leaderboard.dev",
			password: testPassword,
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail("off@leaderboard.dev").Return(disabled, nil)
			},
			wantErr:  ErrUserDisabled,
			wantCode: apiErrors.ErrUserDisabled,
		},
		{
			name:     "Senha incorreta",
			email:    "admin@leaderboard.dev",
			password: "errada",
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail("admin@leaderboard.dev").Return(activeUser(t), nil)
			},
			wantErr:  ErrInvalidCredentials,
			wantCode: apiErrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service, userRepo, _ := newTestService(t, ctrl)
			tt.setup(userRepo)

			token, err := service.LoginUser(context.Background(), tt.email, tt.password)
			assert.Empty(t, token)
			assert.ErrorIs(t, err, tt.wantErr)

			var authErr *AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.wantCode, authErr.Code)
		})
	}
}

func TestService_LoginUserSessionStoreDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userRepo := mocks.NewMockUserRepository(ctrl)
	sessions := sessionmocks.NewMockStore(ctrl)
	service := NewService(userRepo, sessions, &config.Config{SecretKey: "segredo"})

	userRepo.EXPECT().GetUserByEmail("admin@leaderboard.dev").Return(activeUser(t), nil)
	sessions.EXPECT().CurrentEpoch(gomock.Any()).Return(int64(0), errors.New("redis fora do ar"))

	_, err := service.LoginUser(context.Background(), "admin@leaderboard.dev", testPassword)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, apiErrors.ErrExternalService, authErr.Code)
}

func TestService_CreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, _ := newTestService(t, ctrl)

	userRepo.EXPECT().GetUserByEmail("novo@leaderboard.dev").Return(nil, nil)
	userRepo.EXPECT().CreateUser(gomock.Any()).DoAndReturn(func(user *domain.User) (*domain.User, error) {
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("123456")))
		assert.Equal(t, defaultRoleID, user.RoleID)
		assert.True(t, user.Active)
		user.ID = 10
		return user, nil
	})

	created, err := service.CreateUser(&domain.User{Name: "Novo", Email: " Novo@Leaderboard.dev", PasswordHash: "123456"})
	require.NoError(t, err)
	assert.Equal(t, 10, created.ID)
	assert.Equal(t, "novo@leaderboard.dev", created.Email)
	assert.Empty(t, created.PasswordHash)
}

func TestService_CreateUserAlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, _ := newTestService(t, ctrl)
	userRepo.EXPECT().GetUserByEmail("admin@leaderboard.dev").Return(activeUser(t), nil)

	_, err := service.CreateUser(&domain.User{Name: "Admin", Email: "admin@leaderboard.dev", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestService_GetUserProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, _ := newTestService(t, ctrl)

	userRepo.EXPECT().GetUserByID(7).Return(activeUser(t), nil)
	userRepo.EXPECT().GetUserByID(99).Return(nil, nil)

	profile, err := service.GetUserProfile(7)
	require.NoError(t, err)
	assert.Empty(t, profile.PasswordHash)

	_, err = service.GetUserProfile(99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
