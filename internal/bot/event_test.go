package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageUpdate(userID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		MessageID: 7,
		From:      &tgbotapi.User{ID: userID},
		Chat:      &tgbotapi.Chat{ID: userID},
		Text:      text,
	}
	if len(text) > 0 && text[0] == '/' {
		end := len(text)
		for i, r := range text {
			if r == ' ' {
				end = i
				break
			}
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: end}}
	}
	return tgbotapi.Update{Message: msg}
}

func callbackUpdate(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-1",
			From: &tgbotapi.User{ID: userID},
			Message: &tgbotapi.Message{
				MessageID: 9,
				Chat:      &tgbotapi.Chat{ID: userID},
			},
			Data: data,
		},
	}
}

func TestEventFromUpdate_Commands(t *testing.T) {
	cases := []struct {
		text string
		kind EventKind
	}{
		{"/start", EventStart},
		{"/cancel", EventCancelCommand},
		{"/export", EventExportCommand},
		{"/stats", EventStatsCommand},
		{"/unknown", EventUnknown},
	}

	for _, tc := range cases {
		ev, ok := eventFromUpdate(messageUpdate(42, tc.text))
		require.True(t, ok, tc.text)
		assert.Equal(t, tc.kind, ev.Kind, tc.text)
		assert.Equal(t, int64(42), ev.UserID)
		assert.False(t, ev.IsCallback())
	}
}

func TestEventFromUpdate_Text(t *testing.T) {
	ev, ok := eventFromUpdate(messageUpdate(42, "  Анна  "))
	require.True(t, ok)
	assert.Equal(t, EventText, ev.Kind)
	assert.Equal(t, "Анна", ev.Value)
	assert.Equal(t, int64(42), ev.ChatID)
}

func TestEventFromUpdate_Callbacks(t *testing.T) {
	cases := []struct {
		data  string
		kind  EventKind
		value string
	}{
		{"svc:Массаж", EventSelectService, "Массаж"},
		{"slot:Пн 10:00", EventSelectSlot, "Пн 10:00"},
		{"slot_busy", EventSlotBusy, ""},
		{"back", EventBack, ""},
		{"cancel", EventCancel, ""},
		{"confirm", EventConfirm, ""},
		{"restart", EventRestart, ""},
		{"garbage", EventUnknown, ""},
	}

	for _, tc := range cases {
		ev, ok := eventFromUpdate(callbackUpdate(42, tc.data))
		require.True(t, ok, tc.data)
		assert.Equal(t, tc.kind, ev.Kind, tc.data)
		assert.Equal(t, tc.value, ev.Value, tc.data)
		assert.True(t, ev.IsCallback())
		assert.Equal(t, 9, ev.MessageID)
	}
}

func TestEventFromUpdate_Unsupported(t *testing.T) {
	_, ok := eventFromUpdate(tgbotapi.Update{})
	assert.False(t, ok)
}
