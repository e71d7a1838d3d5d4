package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"stockwatch/internal/handler/http/respond"
)

// HealthHandler reports liveness and database connectivity.
func HealthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ok", "database": "ok"}
		code := http.StatusOK
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				status["status"] = "degraded"
				status["database"] = "unreachable"
				code = http.StatusServiceUnavailable
			}
		}
		respond.JSON(w, code, status)
	}
}
