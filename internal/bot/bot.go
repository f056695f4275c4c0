package bot

import (
	"context"
	"os"
	"time"

	"zapisbot/internal/config"
	"zapisbot/internal/domain"
	"zapisbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Bot struct {
	tgService    domain.TelegramService
	config       *config.Config
	catalog      models.Catalog
	sessions     domain.SessionManager
	availability domain.AvailabilityResolver
	finalizer    domain.BookingFinalizer
	store        domain.BookingStore
	eventBus     domain.EventPublisher
	metrics      *Metrics
	logger       *zerolog.Logger
	locks        userLocks
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	catalog models.Catalog,
	sessions domain.SessionManager,
	availability domain.AvailabilityResolver,
	finalizer domain.BookingFinalizer,
	store domain.BookingStore,
	eventBus domain.EventPublisher,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tgService:    tgService,
		config:       config,
		catalog:      catalog,
		sessions:     sessions,
		availability: availability,
		finalizer:    finalizer,
		store:        store,
		eventBus:     eventBus,
		metrics:      metrics,
		logger:       logger,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			// Обновления обрабатываются параллельно, чтобы медленный
			// Sheets-вызов одного пользователя не блокировал остальных.
			// Порядок внутри одного пользователя держит userLock.
			go b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdatesProcessed.Inc()
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		ev, ok := eventFromUpdate(update)
		if !ok || ev.UserID == 0 {
			return
		}

		if !b.isOperator(ev.UserID) {
			allowed, err := b.sessions.CheckRateLimit(updateCtx, ev.UserID,
				b.config.Bot.RateLimitMessages,
				time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
			if err != nil {
				l.Error().Err(err).Int64("user_id", ev.UserID).Msg("Rate limit check failed")
			} else if !allowed {
				l.Warn().Int64("user_id", ev.UserID).Msg("Rate limit exceeded")
				if ev.ChatID != 0 && !ev.IsCallback() {
					b.send(ev.ChatID, rateLimitText, nil)
				}
				return
			}
		}

		unlock := b.locks.lock(ev.UserID)
		defer unlock()

		b.handleEvent(updateCtx, ev)
	})
}

// Stop stops receiving Telegram updates (best-effort).
func (b *Bot) Stop() {
	if b == nil || b.tgService == nil {
		return
	}
	b.tgService.StopReceivingUpdates()
}

func (b *Bot) isOperator(userID int64) bool {
	return userID != 0 && userID == b.config.Telegram.OperatorID
}

// Транспортные помощники. Ошибки отправки логируются и не прерывают
// обработку: Telegram сам переотдаст обновление при необходимости.

func (b *Bot) send(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	var err error
	if keyboard != nil {
		_, err = b.tgService.SendWithInlineKeyboard(chatID, text, *keyboard)
	} else {
		_, err = b.tgService.SendMessage(chatID, text)
	}
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	if messageID == 0 {
		b.send(chatID, text, keyboard)
		return
	}
	if _, err := b.tgService.EditMessage(chatID, messageID, text, keyboard); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Int("message_id", messageID).Msg("edit message")
		// Сообщение могло быть удалено, пробуем новым.
		b.send(chatID, text, keyboard)
	}
}

func (b *Bot) answer(ev Event, text string) {
	if !ev.IsCallback() {
		return
	}
	if err := b.tgService.AnswerCallback(ev.CallbackID, text); err != nil {
		b.logger.Error().Err(err).Msg("answer callback")
	}
}

func (b *Bot) answerAlert(ev Event, text string) {
	if !ev.IsCallback() {
		return
	}
	if err := b.tgService.AnswerCallbackAlert(ev.CallbackID, text); err != nil {
		b.logger.Error().Err(err).Msg("answer callback alert")
	}
}

// reportFailure сообщает пользователю о внутренней ошибке без деталей.
func (b *Bot) reportFailure(ev Event) {
	if b.metrics != nil {
		b.metrics.ErrorsTotal.Inc()
	}
	if ev.ChatID != 0 {
		b.send(ev.ChatID, "❌ Произошла ошибка при обработке вашего запроса. Пожалуйста, попробуйте позже.", nil)
	}
}
