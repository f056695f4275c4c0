package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"zapisbot/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	texts []string
	err   error
}

func (f *fakeNotifier) Notify(ctx context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

type fakeSyncWorker struct {
	appends    []*models.Booking
	notifies   []string
	appendErr  error
	notifyErr  error
}

func (f *fakeSyncWorker) EnqueueAppend(ctx context.Context, booking *models.Booking) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appends = append(f.appends, booking)
	return nil
}

func (f *fakeSyncWorker) EnqueueNotify(ctx context.Context, text string) error {
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.notifies = append(f.notifies, text)
	return nil
}

type fakePublisher struct {
	events []string
}

func (f *fakePublisher) PublishJSON(eventType string, payload interface{}) error {
	f.events = append(f.events, eventType)
	return nil
}

func testBooking() *models.Booking {
	return &models.Booking{
		Name:      "Анна",
		Phone:     "+79991234567",
		Service:   "Массаж",
		Slot:      "Пн 10:00",
		UserID:    42,
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newBookingService(store *fakeBookingStore, notifier *fakeNotifier, worker *fakeSyncWorker, bus *fakePublisher) *BookingService {
	logger := zerolog.Nop()
	return NewBookingService(store, notifier, worker, bus, &logger)
}

func TestBookingService_Finalize(t *testing.T) {
	store := &fakeBookingStore{}
	notifier := &fakeNotifier{}
	worker := &fakeSyncWorker{}
	bus := &fakePublisher{}
	s := newBookingService(store, notifier, worker, bus)

	err := s.Finalize(context.Background(), testBooking())
	require.NoError(t, err)

	require.Len(t, store.appended, 1)
	assert.Equal(t, "Массаж", store.appended[0].Service)

	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "Новая запись!")
	assert.Contains(t, notifier.texts[0], "Услуга: Массаж")
	assert.Contains(t, notifier.texts[0], "Имя: Анна")
	assert.Contains(t, notifier.texts[0], "Телефон: +79991234567")
	assert.Contains(t, notifier.texts[0], "Telegram ID: 42")

	assert.Equal(t, []string{"booking_created"}, bus.events)
	assert.Empty(t, worker.appends)
}

func TestBookingService_FinalizeStoreFailEnqueues(t *testing.T) {
	store := &fakeBookingStore{err: errors.New("sheets down")}
	notifier := &fakeNotifier{}
	worker := &fakeSyncWorker{}
	s := newBookingService(store, notifier, worker, &fakePublisher{})

	err := s.Finalize(context.Background(), testBooking())
	require.NoError(t, err)

	// Запись ушла в очередь, пользователь всё равно видит успех.
	require.Len(t, worker.appends, 1)
	assert.Equal(t, int64(42), worker.appends[0].UserID)
	assert.Len(t, notifier.texts, 1)
}

func TestBookingService_FinalizeStoreAndQueueFail(t *testing.T) {
	store := &fakeBookingStore{err: errors.New("sheets down")}
	worker := &fakeSyncWorker{appendErr: errors.New("queue down")}
	notifier := &fakeNotifier{}
	bus := &fakePublisher{}
	s := newBookingService(store, notifier, worker, bus)

	err := s.Finalize(context.Background(), testBooking())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistFailed)

	// Ни события, ни уведомления — запись не зафиксирована.
	assert.Empty(t, bus.events)
	assert.Empty(t, notifier.texts)
}

func TestBookingService_FinalizeNotifyFailEnqueues(t *testing.T) {
	store := &fakeBookingStore{}
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	worker := &fakeSyncWorker{}
	s := newBookingService(store, notifier, worker, &fakePublisher{})

	err := s.Finalize(context.Background(), testBooking())
	require.NoError(t, err)

	require.Len(t, store.appended, 1)
	require.Len(t, worker.notifies, 1)
	assert.Contains(t, worker.notifies[0], "Новая запись!")
}
