package service

import (
	"context"
	"errors"
	"fmt"

	"zapisbot/internal/domain"
	"zapisbot/internal/events"
	"zapisbot/internal/models"

	"github.com/rs/zerolog"
)

// ErrPersistFailed означает, что запись не удалось ни сохранить, ни
// поставить в очередь повторной доставки. Пользователю нельзя
// показывать успех.
var ErrPersistFailed = errors.New("booking could not be persisted or queued")

// BookingService — финализатор записи: сохраняет подтверждённую запись,
// уведомляет оператора и публикует доменное событие. Сохранение и
// уведомление независимы: сбой уведомления не отменяет запись.
type BookingService struct {
	store    domain.BookingStore
	notifier domain.Notifier
	worker   domain.SyncWorker
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(
	store domain.BookingStore,
	notifier domain.Notifier,
	worker domain.SyncWorker,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{
		store:    store,
		notifier: notifier,
		worker:   worker,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *BookingService) Finalize(ctx context.Context, booking *models.Booking) error {
	if err := s.store.AppendBooking(ctx, booking); err != nil {
		s.logger.Error().Err(err).
			Str("service", booking.Service).
			Str("slot", booking.Slot).
			Int64("user_id", booking.UserID).
			Msg("append booking failed, enqueueing retry")

		if s.worker == nil {
			return ErrPersistFailed
		}
		if qerr := s.worker.EnqueueAppend(ctx, booking); qerr != nil {
			s.logger.Error().Err(qerr).Int64("user_id", booking.UserID).Msg("enqueue booking retry failed")
			return ErrPersistFailed
		}
	}

	s.publishCreated(booking)

	if err := s.notifier.Notify(ctx, OperatorSummary(booking)); err != nil {
		s.logger.Error().Err(err).Int64("user_id", booking.UserID).Msg("operator notification failed")
		if s.worker != nil {
			if qerr := s.worker.EnqueueNotify(ctx, OperatorSummary(booking)); qerr != nil {
				s.logger.Error().Err(qerr).Msg("enqueue notification retry failed")
			}
		}
	}

	return nil
}

func (s *BookingService) publishCreated(booking *models.Booking) {
	if s.eventBus == nil {
		return
	}
	payload := events.BookingEventPayload{
		UserID:    booking.UserID,
		Name:      booking.Name,
		Phone:     booking.Phone,
		Service:   booking.Service,
		Slot:      booking.Slot,
		CreatedAt: booking.CreatedAt,
	}
	if err := s.eventBus.PublishJSON(events.EventBookingCreated, payload); err != nil {
		s.logger.Error().Err(err).Msg("publish booking event failed")
	}
}

// OperatorSummary форматирует уведомление оператору о новой записи.
func OperatorSummary(b *models.Booking) string {
	return fmt.Sprintf(
		"Новая запись!\nУслуга: %s\nДата и время: %s\nИмя: %s\nТелефон: %s\nTelegram ID: %d",
		b.Service, b.Slot, b.Name, b.Phone, b.UserID,
	)
}
