package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/store-leaderboard-api/internal/api/handler/router"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/leaderboard"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/ranking"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/resetting"
	"github.com/vfg2006/store-leaderboard-api/internal/usecases/store"
	"github.com/vfg2006/store-leaderboard-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type middlewares = []func(http.Handler) http.Handler

func Healthcheck(checks map[string]Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(checks),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
	}
}

func Leaderboard(service leaderboard.LeaderboardService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/leaderboard",
			Method:      http.MethodGet,
			Handler:     GetLeaderboard(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
	}
}

func Stores(service store.StoreService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/stores",
			Method:      http.MethodPost,
			Handler:     CreateStore(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/stores/:id/transactions",
			Method:      http.MethodPost,
			Handler:     RecordTransaction(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
	}
}

func StoreRanking(service ranking.RankingService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/stores/ranking",
			Method:      http.MethodGet,
			Handler:     GetStoreRanking(service),
			Middlewares: middlewares{middleware.AdminOrSupervisor()},
		},
	}
}

func Admin(service resetting.Resetter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/admin/reset",
			Method:      http.MethodPost,
			Handler:     ResetAll(service),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
	}
}

// writeJSON escreve a resposta com o status informado
func writeJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}
