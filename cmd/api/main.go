package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/repository"
	"github.com/vfg2006/store-leaderboard-api/infrastructure/session"
	"github.com/vfg2006/store-leaderboard-api/internal/api"
	"github.com/vfg2006/store-leaderboard-api/internal/api/handler"
	"github.com/vfg2006/store-leaderboard-api/internal/config"
	"github.com/vfg2006/store-leaderboard-api/internal/scheduler"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/leaderboard"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/ranking"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/resetting"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/store"
	"github.com/vfg2006/store-leaderboard-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel, cfg.App.Env)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	redisClient := redisconn(ctx, cfg.Redis)
	defer redisClient.Close()

	storeRepo := repository.NewStoreRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)
	storeRankingRepo := repository.NewStoreRankingRepository(pgConn)
	sessions := session.NewRedisStore(redisClient, cfg.Redis.SessionKey)

	currency, err := leaderboard.NewCurrencyFormatter(cfg.Leaderboard.Locale, cfg.Leaderboard.Currency)
	if err != nil {
		logrus.WithError(err).Fatal("Configuração de moeda do leaderboard inválida")
	}

	leaderboardService, err := leaderboard.NewService(
		storeRepo,
		leaderboard.WithRenderer(leaderboard.NewRenderer(currency, leaderboard.NewRandomBadger(cfg.Leaderboard.BadgeSeed))),
	)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao criar o serviço de leaderboard")
	}

	authenticator := authenticating.NewService(userRepo, sessions, cfg)
	storeService := store.NewService(storeRepo)
	rankingService := ranking.NewStoreRankingService(storeRankingRepo)
	resetService := resetting.NewService(storeRepo, sessions)

	snapshotService := scheduler.NewLeaderboardSnapshotService(storeRepo, storeRankingRepo, cfg)
	if err := snapshotService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de snapshot do leaderboard")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Leaderboard:   leaderboardService,
		Stores:        storeService,
		Ranking:       rankingService,
		Resetter:      resetService,
		CronJobs:      handler.CronJobServices{LeaderboardSnapshot: snapshotService},
		HealthChecks: map[string]handler.Pinger{
			"postgres": pgConn,
			"redis": handler.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		},
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

func redisconn(ctx context.Context, redisConfig config.Redis) *redis.Client {
	client, err := session.NewRedisClient(ctx, redisConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao Redis")
	}

	logrus.WithField("addr", redisConfig.Addr).Info("Conexão com Redis estabelecida com sucesso")
	return client
}
