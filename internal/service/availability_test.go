package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"zapisbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingStore struct {
	bookings []models.Booking
	err      error
	appended []*models.Booking
}

func (f *fakeBookingStore) AppendBooking(ctx context.Context, booking *models.Booking) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, booking)
	return nil
}

func (f *fakeBookingStore) ListBookings(ctx context.Context, service string) ([]models.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	if service == "" {
		return f.bookings, nil
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Service == service {
			out = append(out, b)
		}
	}
	return out, nil
}

func TestAvailabilityService_BookedSlots(t *testing.T) {
	store := &fakeBookingStore{bookings: []models.Booking{
		{Service: "Массаж", Slot: "Пн 10:00", Name: "Анна", CreatedAt: time.Now()},
		{Service: "Массаж", Slot: "Пн 12:00", Name: "Олег", CreatedAt: time.Now()},
		{Service: "Маникюр", Slot: "Пн 10:00", Name: "Ира", CreatedAt: time.Now()},
	}}
	s := NewAvailabilityService(store)

	booked, err := s.BookedSlots(context.Background(), "Массаж")
	require.NoError(t, err)
	assert.Len(t, booked, 2)
	assert.Contains(t, booked, "Пн 10:00")
	assert.Contains(t, booked, "Пн 12:00")
	assert.NotContains(t, booked, "Вт 10:00")
}

func TestAvailabilityService_BookedSlotsEmpty(t *testing.T) {
	s := NewAvailabilityService(&fakeBookingStore{})

	booked, err := s.BookedSlots(context.Background(), "Массаж")
	require.NoError(t, err)
	assert.Empty(t, booked)
}

func TestAvailabilityService_BookedSlotsStoreError(t *testing.T) {
	storeErr := errors.New("sheets unavailable")
	s := NewAvailabilityService(&fakeBookingStore{err: storeErr})

	booked, err := s.BookedSlots(context.Background(), "Массаж")
	assert.Nil(t, booked)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}
