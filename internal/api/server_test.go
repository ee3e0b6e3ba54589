package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/session"
	"github.com/vfg2006/store-leaderboard-api/internal/api/handler"
	"github.com/vfg2006/store-leaderboard-api/internal/config"
	"github.com/vfg2006/store-leaderboard-api/internal/domain"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/leaderboard"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/ranking"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/resetting"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/store"
	"github.com/vfg2006/store-leaderboard-api/pkg/middleware"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const (
	testPassword  = "senha-forte"
	allowedOrigin = "http://localhost:3000"
)

type fakeSyncJob struct {
	triggered int
}

func (j *fakeSyncJob) TriggerManualSync() { j.triggered++ }

func (j *fakeSyncJob) GetStatus() map[string]any {
	return map[string]any{"sync_running": false}
}

type testEnv struct {
	handler     http.Handler
	userRepo    *mocks.MockUserRepository
	storeRepo   *mocks.MockStoreRepository
	rankingRepo *mocks.MockStoreRankingRepository
	snapshotJob *fakeSyncJob
	hash        string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		Server:    config.Server{AllowedOrigins: []string{allowedOrigin}},
		SecretKey: "segredo-de-teste",
	}

	env := &testEnv{
		userRepo:    mocks.NewMockUserRepository(ctrl),
		storeRepo:   mocks.NewMockStoreRepository(ctrl),
		rankingRepo: mocks.NewMockStoreRankingRepository(ctrl),
		snapshotJob: &fakeSyncJob{},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	env.hash = string(hash)

	sessions := session.NewRedisStore(client, "test:session_epoch")
	referenceNow := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	leaderboardService, err := leaderboard.NewService(
		env.storeRepo,
		leaderboard.WithClock(func() time.Time { return referenceNow }),
		leaderboard.WithRenderer(leaderboard.NewRenderer(nil, leaderboard.NewRandomBadger(1))),
	)
	require.NoError(t, err)

	env.handler = NewHandler(cfg, Services{
		Authenticator: authenticating.NewService(env.userRepo, sessions, cfg),
		Leaderboard:   leaderboardService,
		Stores:        store.NewService(env.storeRepo),
		Ranking:       ranking.NewStoreRankingService(env.rankingRepo),
		Resetter:      resetting.NewService(env.storeRepo, sessions),
		CronJobs:      handler.CronJobServices{LeaderboardSnapshot: env.snapshotJob},
		HealthChecks: map[string]handler.Pinger{
			"redis": handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() }),
		},
	})

	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, jsoniter.NewEncoder(&payload).Encode(body))
	}

	req := httptest.NewRequest(method, path, &payload)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, roleID int) string {
	t.Helper()

	email := "user@leaderboard.dev"
	e.userRepo.EXPECT().GetUserByEmail(email).Return(&domain.User{
		ID:           roleID * 10,
		Name:         "Usuário",
		Email:        email,
		PasswordHash: e.hash,
		Active:       true,
		RoleID:       roleID,
	}, nil)

	rec := e.do(t, http.MethodPost, "/v1/login", "", handler.LoginRequest{Email: email, Password: testPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response handler.LoginResponse
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	return response.Token
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestHealthcheck(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthcheck", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"ok"`)
	assert.NotEmpty(t, rec.Header().Get(middleware.CorrelationIDHeader))
}

func TestLeaderboard_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/leaderboard", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_006", decodeErrorCode(t, rec))
}

func TestLeaderboard_Render(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, middleware.RoleViewer)

	createdAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	env.storeRepo.EXPECT().ListStores().Return([]domain.Store{
		{ID: "s1", Name: "Loja 1", URL: "https://loja1.com/", CreatedAt: createdAt},
		{ID: "s2", Name: "Loja 2", URL: "http://loja2.com", CreatedAt: createdAt},
	}, nil)
	env.storeRepo.EXPECT().ListTransactions(gomock.Not(gomock.Nil())).Return([]domain.Transaction{
		{StoreID: "s1", Amount: decimal.NewFromInt(10)},
		{StoreID: "s1", Amount: decimal.NewFromInt(10)},
		{StoreID: "s2", Amount: decimal.NewFromInt(1500)},
	}, nil)

	rec := env.do(t, http.MethodGet, "/v1/leaderboard?metric=orders&range=30d", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result domain.Leaderboard
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, domain.MetricOrders, result.Metric)
	assert.Equal(t, domain.TimeRange30Days, result.TimeRange)
	require.Len(t, result.Podium, 3)
	assert.Equal(t, "Loja 1", result.Podium[0].Name)
	assert.Equal(t, "loja1.com", result.Podium[0].URL)
	assert.Equal(t, "2 orders", result.Podium[0].Value)
	assert.True(t, result.Podium[2].Empty)
	assert.Empty(t, result.Table)
	assert.Equal(t, "$1,520", result.Summary.TotalRevenue)
}

func TestLeaderboard_DataStoreError(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, middleware.RoleViewer)

	env.storeRepo.EXPECT().ListStores().Return(nil, errors.New("banco indisponível"))

	rec := env.do(t, http.MethodGet, "/v1/leaderboard", token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStores_AdminOnly(t *testing.T) {
	env := newTestEnv(t)

	viewer := env.login(t, middleware.RoleViewer)
	rec := env.do(t, http.MethodPost, "/v1/stores", viewer, domain.CreateStoreRequest{Name: "Loja"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := env.login(t, middleware.RoleAdmin)
	env.storeRepo.EXPECT().CreateStore(gomock.Any()).Return(&domain.Store{ID: "abc123", Name: "Loja"}, nil)

	rec = env.do(t, http.MethodPost, "/v1/stores", admin, domain.CreateStoreRequest{Name: "Loja"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"abc123"`)
}

func TestStores_RecordTransaction(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, middleware.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/v1/stores/abc123/transactions", admin, map[string]any{"amount": "-5"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "STR_002", decodeErrorCode(t, rec))

	env.storeRepo.EXPECT().GetStoreByID("zzz999").Return(nil, nil)
	rec = env.do(t, http.MethodPost, "/v1/stores/zzz999/transactions", admin, map[string]any{"amount": "5"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "STR_001", decodeErrorCode(t, rec))
}

func TestStoreRanking_InvalidMonth(t *testing.T) {
	env := newTestEnv(t)
	supervisor := env.login(t, middleware.RoleSupervisor)

	rec := env.do(t, http.MethodGet, "/v1/stores/ranking?month=2024-01", supervisor, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "STR_003", decodeErrorCode(t, rec))
}

func TestAdminReset_ForcesLogout(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, middleware.RoleAdmin)

	env.storeRepo.EXPECT().DeleteAll(gomock.Any()).Return(int64(4), nil)

	rec := env.do(t, http.MethodPost, "/v1/admin/reset", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"session_epoch":1`)

	rec = env.do(t, http.MethodGet, "/v1/me", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_010", decodeErrorCode(t, rec))
}

func TestCronJobs(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, middleware.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/v1/cron/leaderboard-snapshot/run", admin, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, env.snapshotJob.triggered)

	rec = env.do(t, http.MethodPost, "/v1/cron/unknown/run", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/cron/status", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "leaderboard-snapshot")
}

func TestRouter_NotFoundAndCors(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, middleware.RoleViewer)

	rec := env.do(t, http.MethodGet, "/v1/nao-existe", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RTE_001", decodeErrorCode(t, rec))

	req := httptest.NewRequest(http.MethodOptions, "/v1/leaderboard", strings.NewReader(""))
	req.Header.Set("Origin", allowedOrigin)
	preflight := httptest.NewRecorder()
	env.handler.ServeHTTP(preflight, req)

	assert.Equal(t, http.StatusOK, preflight.Code)
	assert.Equal(t, allowedOrigin, preflight.Header().Get("Access-Control-Allow-Origin"))
}
