package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Данные callback-кнопок. Выбор услуги и слота кодируется префиксом,
// служебные кнопки — фиксированным токеном.
const (
	cbServicePrefix = "svc:"
	cbSlotPrefix    = "slot:"
	cbSlotBusy      = "slot_busy"
	cbBack          = "back"
	cbCancel        = "cancel"
	cbConfirm       = "confirm"
	cbRestart       = "restart"
)

// EventKind — вид входящего события диалога.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventStart
	EventCancelCommand
	EventExportCommand
	EventStatsCommand
	EventSelectService
	EventSelectSlot
	EventSlotBusy
	EventBack
	EventCancel
	EventConfirm
	EventRestart
	EventText
)

// Event — нормализованное обновление Telegram. Обработчик диалога
// работает только с ним, не с сырым Update.
type Event struct {
	Kind       EventKind
	UserID     int64
	ChatID     int64
	MessageID  int
	CallbackID string
	Value      string
}

// IsCallback сообщает, пришло ли событие от inline-кнопки.
func (e Event) IsCallback() bool {
	return e.CallbackID != ""
}

// eventFromUpdate нормализует обновление. Возвращает false для
// обновлений без пользователя или неподдерживаемых типов.
func eventFromUpdate(update tgbotapi.Update) (Event, bool) {
	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		ev := Event{
			UserID:     cb.From.ID,
			CallbackID: cb.ID,
		}
		if cb.Message != nil {
			ev.ChatID = cb.Message.Chat.ID
			ev.MessageID = cb.Message.MessageID
		}

		data := cb.Data
		switch {
		case strings.HasPrefix(data, cbServicePrefix):
			ev.Kind = EventSelectService
			ev.Value = strings.TrimPrefix(data, cbServicePrefix)
		case strings.HasPrefix(data, cbSlotPrefix):
			ev.Kind = EventSelectSlot
			ev.Value = strings.TrimPrefix(data, cbSlotPrefix)
		case data == cbSlotBusy:
			ev.Kind = EventSlotBusy
		case data == cbBack:
			ev.Kind = EventBack
		case data == cbCancel:
			ev.Kind = EventCancel
		case data == cbConfirm:
			ev.Kind = EventConfirm
		case data == cbRestart:
			ev.Kind = EventRestart
		default:
			ev.Kind = EventUnknown
		}
		return ev, true
	}

	if update.Message != nil && update.Message.From != nil {
		msg := update.Message
		ev := Event{
			UserID:    msg.From.ID,
			ChatID:    msg.Chat.ID,
			MessageID: msg.MessageID,
		}

		if msg.IsCommand() {
			switch msg.Command() {
			case "start":
				ev.Kind = EventStart
			case "cancel":
				ev.Kind = EventCancelCommand
			case "export":
				ev.Kind = EventExportCommand
			case "stats":
				ev.Kind = EventStatsCommand
			default:
				ev.Kind = EventUnknown
			}
			return ev, true
		}

		ev.Kind = EventText
		ev.Value = strings.TrimSpace(msg.Text)
		return ev, true
	}

	return Event{}, false
}
