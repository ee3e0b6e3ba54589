package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/store-leaderboard-api/internal/api/handler"
	"github.com/vfg2006/store-leaderboard-api/internal/api/handler/router"
	"github.com/vfg2006/store-leaderboard-api/internal/config"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/leaderboard"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/ranking"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/resetting"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/store"
	"github.com/vfg2006/store-leaderboard-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

// Services agrupa os casos de uso expostos pela API
type Services struct {
	Authenticator authenticating.Authenticator
	Leaderboard   leaderboard.LeaderboardService
	Stores        store.StoreService
	Ranking       ranking.RankingService
	Resetter      resetting.Resetter
	CronJobs      handler.CronJobServices
	HealthChecks  map[string]handler.Pinger
}

type Server struct {
	httpServer *http.Server
}

func New(config *config.Config, services Services) (*Server, error) {
	if services.Authenticator == nil || services.Leaderboard == nil {
		return nil, fmt.Errorf("api: autenticador e leaderboard são obrigatórios")
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, services),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// NewHandler monta o router com a cadeia de middlewares global
func NewHandler(config *config.Config, services Services) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck(services.HealthChecks)...),
		router.WithRoutes(handler.Authentication(services.Authenticator)...),
		router.WithRoutes(handler.Leaderboard(services.Leaderboard)...),
		router.WithRoutes(handler.Stores(services.Stores)...),
		router.WithRoutes(handler.StoreRanking(services.Ranking)...),
		router.WithRoutes(handler.Admin(services.Resetter)...),
		router.WithRoutes(handler.CronJobs(services.CronJobs)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}
