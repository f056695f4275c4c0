package bot

import (
	"context"
	"errors"
	"time"

	"zapisbot/internal/events"
	"zapisbot/internal/models"
	"zapisbot/internal/service"

	"github.com/rs/zerolog"
)

// handleEvent продвигает диалог пользователя на одно событие. Сессия
// загружается и сохраняется целиком, поэтому обработчик обязан быть
// единственным писателем для данного пользователя (см. userLock).
func (b *Bot) handleEvent(ctx context.Context, ev Event) {
	logger := zerolog.Ctx(ctx)

	// Команды и кнопки, работающие из любого шага.
	switch ev.Kind {
	case EventStart:
		b.startDialog(ctx, ev, false)
		return
	case EventRestart:
		b.startDialog(ctx, ev, true)
		return
	case EventCancel, EventCancelCommand:
		b.cancelDialog(ctx, ev)
		return
	case EventExportCommand:
		b.handleExport(ctx, ev)
		return
	case EventStatsCommand:
		b.handleStats(ctx, ev)
		return
	case EventSlotBusy:
		b.answerAlert(ev, slotBusyText)
		return
	case EventUnknown:
		b.answer(ev, "")
		return
	}

	session, err := b.sessions.GetSession(ctx, ev.UserID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", ev.UserID).Msg("load session")
		b.reportFailure(ev)
		return
	}
	if session == nil {
		// Сессии нет: кнопка из устаревшего сообщения или текст вне
		// диалога. Ничего не меняем, подсказываем начать заново.
		b.answer(ev, "")
		if ev.ChatID != 0 {
			b.send(ev.ChatID, sessionExpiredText, nil)
		}
		return
	}

	switch session.Step {
	case models.StepSelectService:
		b.stepSelectService(ctx, ev, session)
	case models.StepSelectSlot:
		b.stepSelectSlot(ctx, ev, session)
	case models.StepEnterName:
		b.stepEnterName(ctx, ev, session)
	case models.StepEnterPhone:
		b.stepEnterPhone(ctx, ev, session)
	case models.StepConfirm:
		b.stepConfirm(ctx, ev, session)
	default:
		logger.Warn().Str("step", session.Step).Int64("user_id", ev.UserID).Msg("unknown session step, resetting")
		b.startDialog(ctx, ev, false)
	}
}

// startDialog выводит сессию на шаг выбора услуги. Повторный /start
// посреди диалога переиспользует запись, сбрасывая накопленные поля.
// При restart приветствие заменяет сообщение с кнопкой, при /start
// уходит новым.
func (b *Bot) startDialog(ctx context.Context, ev Event, edit bool) {
	b.answer(ev, "")

	session, err := b.sessions.GetSession(ctx, ev.UserID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("load session")
	}
	if session == nil {
		session = &models.Session{UserID: ev.UserID}
	}
	session.ChatID = ev.ChatID
	session.Step = models.StepSelectService
	session.Reset()
	if err := b.sessions.SaveSession(ctx, session); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("save session")
		b.reportFailure(ev)
		return
	}

	keyboard := serviceKeyboard(b.catalog)
	if edit && ev.IsCallback() {
		b.edit(ev.ChatID, ev.MessageID, welcomeText, &keyboard)
	} else {
		b.send(ev.ChatID, welcomeText, &keyboard)
	}
}

// cancelDialog завершает диалог из любого шага. Callback-отмена
// заменяет сообщение, /cancel отвечает новым.
func (b *Bot) cancelDialog(ctx context.Context, ev Event) {
	b.answer(ev, "")

	session, err := b.sessions.GetSession(ctx, ev.UserID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("load session")
	}
	if err := b.sessions.ClearSession(ctx, ev.UserID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("clear session")
	}
	if session != nil {
		if b.metrics != nil {
			b.metrics.BookingsCancelled.Inc()
		}
		if b.eventBus != nil {
			payload := events.BookingEventPayload{
				UserID:    session.UserID,
				Name:      session.Name,
				Phone:     session.Phone,
				Service:   session.Service,
				Slot:      session.Slot,
				CreatedAt: time.Now(),
			}
			if err := b.eventBus.PublishJSON(events.EventBookingCancelled, payload); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("publish cancel event")
			}
		}
	}

	if ev.IsCallback() {
		b.edit(ev.ChatID, ev.MessageID, cancelledShortText, nil)
	} else {
		b.send(ev.ChatID, cancelledText, nil)
	}
	zerolog.Ctx(ctx).Info().Int64("user_id", ev.UserID).Msg("dialog cancelled")
}

func (b *Bot) stepSelectService(ctx context.Context, ev Event, session *models.Session) {
	if ev.Kind != EventSelectService {
		b.answer(ev, "")
		return
	}
	if !b.catalog.Has(ev.Value) {
		// Токен из старого меню после смены каталога.
		b.answer(ev, "")
		return
	}
	b.answer(ev, "")

	session.Service = ev.Value
	session.Step = models.StepSelectSlot
	if err := b.sessions.SaveSession(ctx, session); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("save session")
		b.reportFailure(ev)
		return
	}

	b.renderSlotMenu(ctx, ev, session)
}

func (b *Bot) stepSelectSlot(ctx context.Context, ev Event, session *models.Session) {
	switch ev.Kind {
	case EventBack:
		b.answer(ev, "")
		session.Step = models.StepSelectService
		if err := b.sessions.SaveSession(ctx, session); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("save session")
			b.reportFailure(ev)
			return
		}
		keyboard := serviceKeyboard(b.catalog)
		b.edit(ev.ChatID, ev.MessageID, selectServiceText, &keyboard)

	case EventSelectSlot:
		if !b.catalog.HasSlot(session.Service, ev.Value) {
			b.answer(ev, "")
			return
		}

		// Повторная проверка занятости на момент выбора: меню могло
		// устареть, пока пользователь думал.
		booked := b.bookedSlots(ctx, session.Service)
		if _, busy := booked[ev.Value]; busy {
			b.answerAlert(ev, slotJustTakenText)
			b.renderSlotMenu(ctx, ev, session)
			return
		}
		b.answer(ev, "")

		session.Slot = ev.Value
		session.Step = models.StepEnterName
		if err := b.sessions.SaveSession(ctx, session); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("save session")
			b.reportFailure(ev)
			return
		}

		keyboard := backCancelKeyboard()
		b.edit(ev.ChatID, ev.MessageID, askNameText(session.Service, session.Slot), &keyboard)

	default:
		b.answer(ev, "")
	}
}

func (b *Bot) stepEnterName(ctx context.Context, ev Event, session *models.Session) {
	switch ev.Kind {
	case EventBack:
		b.answer(ev, "")
		session.Step = models.StepSelectSlot
		if err := b.sessions.SaveSession(ctx, session); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("save session")
			b.reportFailure(ev)
			return
		}
		b.renderSlotMenu(ctx, ev, session)

	case EventText:
		if !service.ValidName(ev.Value) {
			keyboard := backCancelKeyboard()
			b.send(ev.ChatID, emptyNameText, &keyboard)
			return
		}

		session.Name = ev.Value
		session.Step = models.StepEnterPhone
		if err := b.sessions.SaveSession(ctx, session); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("save session")
			b.reportFailure(ev)
			return
		}

		keyboard := backCancelKeyboard()
		b.send(ev.ChatID, phonePromptText, &keyboard)

	default:
		b.answer(ev, "")
	}
}

func (b *Bot) stepEnterPhone(ctx context.Context, ev Event, session *models.Session) {
	switch ev.Kind {
	case EventBack:
		b.answer(ev, "")
		session.Step = models.StepEnterName
		if err := b.sessions.SaveSession(ctx, session); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("save session")
			b.reportFailure(ev)
			return
		}
		keyboard := backCancelKeyboard()
		b.edit(ev.ChatID, ev.MessageID, askNameText(session.Service, session.Slot), &keyboard)

	case EventText:
		if ev.Value == "" {
			keyboard := backCancelKeyboard()
			b.send(ev.ChatID, emptyPhoneText, &keyboard)
			return
		}
		if !service.ValidPhone(ev.Value) {
			keyboard := backCancelKeyboard()
			b.send(ev.ChatID, invalidPhoneText, &keyboard)
			return
		}

		session.Phone = ev.Value
		session.Step = models.StepConfirm
		if err := b.sessions.SaveSession(ctx, session); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("save session")
			b.reportFailure(ev)
			return
		}

		keyboard := confirmKeyboard()
		b.send(ev.ChatID, summaryText(session), &keyboard)

	default:
		b.answer(ev, "")
	}
}

func (b *Bot) stepConfirm(ctx context.Context, ev Event, session *models.Session) {
	switch ev.Kind {
	case EventBack:
		b.answer(ev, "")
		session.Step = models.StepEnterPhone
		if err := b.sessions.SaveSession(ctx, session); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("save session")
			b.reportFailure(ev)
			return
		}
		keyboard := backCancelKeyboard()
		b.edit(ev.ChatID, ev.MessageID, phonePromptText, &keyboard)

	case EventConfirm:
		b.answer(ev, "")

		booking := &models.Booking{
			Name:      session.Name,
			Phone:     session.Phone,
			Service:   session.Service,
			Slot:      session.Slot,
			UserID:    session.UserID,
			CreatedAt: time.Now(),
		}

		if err := b.finalizer.Finalize(ctx, booking); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("finalize booking")
			if b.metrics != nil {
				b.metrics.ErrorsTotal.Inc()
			}
			if errors.Is(err, service.ErrPersistFailed) {
				// Данные целы, пользователь остаётся на подтверждении
				// и может нажать "Подтвердить" снова.
				keyboard := confirmKeyboard()
				b.send(ev.ChatID, persistFailedText, &keyboard)
				return
			}
			b.reportFailure(ev)
			return
		}

		if b.metrics != nil {
			b.metrics.BookingsCreated.WithLabelValues(booking.Service).Inc()
		}

		if err := b.sessions.ClearSession(ctx, ev.UserID); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", ev.UserID).Msg("clear session")
		}

		keyboard := restartKeyboard()
		b.edit(ev.ChatID, ev.MessageID, successText, &keyboard)
		zerolog.Ctx(ctx).Info().
			Int64("user_id", ev.UserID).
			Str("service", booking.Service).
			Str("slot", booking.Slot).
			Msg("booking confirmed")

	case EventText:
		keyboard := confirmKeyboard()
		b.send(ev.ChatID, confirmButtonsText, &keyboard)

	default:
		b.answer(ev, "")
	}
}

// renderSlotMenu показывает слоты услуги с пометкой занятых. Ошибка
// чтения занятости не блокирует диалог: меню рисуется без пометок,
// авторитетная проверка всё равно выполняется при выборе слота.
func (b *Bot) renderSlotMenu(ctx context.Context, ev Event, session *models.Session) {
	booked := b.bookedSlots(ctx, session.Service)
	keyboard := slotKeyboard(b.catalog.SlotsFor(session.Service), booked)
	text := slotMenuText(session.Service)
	if ev.IsCallback() {
		b.edit(ev.ChatID, ev.MessageID, text, &keyboard)
	} else {
		b.send(ev.ChatID, text, &keyboard)
	}
}

func (b *Bot) bookedSlots(ctx context.Context, serviceName string) map[string]struct{} {
	booked, err := b.availability.BookedSlots(ctx, serviceName)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("service", serviceName).Msg("resolve booked slots")
		return map[string]struct{}{}
	}
	return booked
}
