package handlers

import (
	"context"
	"net/http"
	"time"

	"planning-api/utilities"
)

// HealthChecker é implementado por database.Pool.
type HealthChecker interface {
	Ping(ctx context.Context) error
	InUse() int
}

type healthResponse struct {
	Status string `json:"status"`
	InUse  int    `json:"in_use"`
}

// HealthHandler verifica se o banco responde dentro de dois segundos.
func HealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.Ping(ctx); err != nil {
			utilities.LogError(err, "["+RequestID(r.Context())+"] Banco de dados indisponível")
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", InUse: checker.InUse()})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", InUse: checker.InUse()})
	}
}
