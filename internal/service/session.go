package service

import (
	"context"
	"time"

	"zapisbot/internal/domain"
	"zapisbot/internal/models"

	"github.com/rs/zerolog"
)

// SessionService — сервисный слой над хранилищем сессий.
type SessionService struct {
	sessionRepo domain.SessionRepository
	logger      *zerolog.Logger
}

func NewSessionService(sessionRepo domain.SessionRepository, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

func (s *SessionService) GetSession(ctx context.Context, userID int64) (*models.Session, error) {
	session, err := s.sessionRepo.GetSession(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get session")
		return nil, err
	}

	return session, nil
}

func (s *SessionService) SaveSession(ctx context.Context, session *models.Session) error {
	return s.sessionRepo.SetSession(ctx, session)
}

func (s *SessionService) ClearSession(ctx context.Context, userID int64) error {
	return s.sessionRepo.ClearSession(ctx, userID)
}

func (s *SessionService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return s.sessionRepo.CheckRateLimit(ctx, userID, limit, window)
}
