package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"zapisbot/internal/database"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// MonitoringServer отдаёт метрики Prometheus и пробы живости.
type MonitoringServer struct {
	server *http.Server
	db     *database.DB
	redis  *redis.Client
	logger *zerolog.Logger
}

func NewMonitoringServer(port int, db *database.DB, redisClient *redis.Client, logger *zerolog.Logger) *MonitoringServer {
	srv := &MonitoringServer{db: db, redis: redisClient, logger: logger}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", srv.handleHealthz)
	mux.HandleFunc("/readyz", srv.handleReadyz)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *MonitoringServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *MonitoringServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()

	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
	}
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *MonitoringServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("monitoring server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *MonitoringServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
