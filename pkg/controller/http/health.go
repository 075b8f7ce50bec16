package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/mirror-status/pkg/domain/model"
	"github.com/m-mizutani/mirror-status/pkg/domain/types"
)

// healthHandler reports liveness and the mirror this server keeps up to date
func healthHandler(mirror string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := &model.HealthStatus{
			Status:  "healthy",
			Service: "mirror-status",
			Version: types.Version,
			Mirror:  mirror,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
		}
	}
}
