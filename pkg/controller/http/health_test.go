package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	controller "github.com/m-mizutani/mirror-status/pkg/controller/http"
	"github.com/m-mizutani/mirror-status/pkg/domain/model"
)

func TestHealthEndpoint(t *testing.T) {
	server, err := controller.NewServer(
		context.Background(),
		&MockWebhookUseCase{},
		controller.WithAddr("localhost:0"),
		controller.WithWebhookSecret("test-secret"),
		controller.WithMirror("nylen/wordpress-develop-svn"),
	)
	gt.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	server.Handler.ServeHTTP(w, req)

	gt.Number(t, w.Code).Equal(http.StatusOK)

	var status model.HealthStatus
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	gt.String(t, status.Status).Equal("healthy")
	gt.String(t, status.Service).Equal("mirror-status")
	gt.String(t, status.Version).NotEqual("")
	gt.String(t, status.Mirror).Equal("nylen/wordpress-develop-svn")
}
