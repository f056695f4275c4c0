package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"zapisbot/internal/database"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitoringEndpoints(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	logger := zerolog.Nop()
	srv := NewMonitoringServer(0, db, nil, &logger)

	t.Run("Healthz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.handleHealthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("Readyz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.handleReadyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", rec.Body.String())
	})
}
