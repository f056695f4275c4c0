package domain

import (
	"context"
	"time"

	"zapisbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SessionRepository хранит сессии диалогов по идентификатору пользователя.
type SessionRepository interface {
	GetSession(ctx context.Context, userID int64) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// SessionManager — сервисный слой над SessionRepository.
type SessionManager interface {
	GetSession(ctx context.Context, userID int64) (*models.Session, error)
	SaveSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// BookingStore — табличное хранилище записей (Google Sheets).
// ListBookings с пустым service возвращает все записи.
type BookingStore interface {
	AppendBooking(ctx context.Context, booking *models.Booking) error
	ListBookings(ctx context.Context, service string) ([]models.Booking, error)
}

// AvailabilityResolver возвращает занятые слоты услуги.
type AvailabilityResolver interface {
	BookedSlots(ctx context.Context, service string) (map[string]struct{}, error)
}

// BookingFinalizer фиксирует подтверждённую запись: сохранение,
// уведомление оператора, доменное событие.
type BookingFinalizer interface {
	Finalize(ctx context.Context, booking *models.Booking) error
}

// Notifier доставляет текст в фиксированный чат оператора.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// SyncWorker принимает задачи на повторную доставку.
type SyncWorker interface {
	EnqueueAppend(ctx context.Context, booking *models.Booking) error
	EnqueueNotify(ctx context.Context, text string) error
}

// EventPublisher публикует доменные события процесса.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// TelegramSender — минимальный контракт над tgbotapi.BotAPI.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

// TelegramService — удобная обёртка транспорта для обработчиков.
type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	AnswerCallbackAlert(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
