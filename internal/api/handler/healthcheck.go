package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const healthcheckTimeout = 2 * time.Second

// Pinger é uma dependência verificada pelo healthcheck
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapta uma função ao Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type healthcheckResponse struct {
	Status string            `json:"status"`
	Time   time.Time         `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthcheckHandler responde 503 se alguma dependência não responder ao ping
func HealthcheckHandler(checks map[string]Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthcheckTimeout)
		defer cancel()

		response := healthcheckResponse{
			Status: "ok",
			Time:   time.Now(),
			Checks: make(map[string]string, len(checks)),
		}
		status := http.StatusOK

		for name, check := range checks {
			if err := check.Ping(ctx); err != nil {
				logrus.WithError(err).WithField("dependency", name).Warn("Healthcheck falhou")
				response.Checks[name] = err.Error()
				response.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			response.Checks[name] = "ok"
		}

		if err := writeJSON(w, status, response); err != nil {
			logrus.WithError(err).Warn("error responding to healthcheck")
		}
	})
}
