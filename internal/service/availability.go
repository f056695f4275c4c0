package service

import (
	"context"
	"fmt"

	"zapisbot/internal/domain"
)

// AvailabilityService вычисляет занятые слоты услуги по записям в
// табличном хранилище. Ошибку хранилища возвращает вызывающему:
// решение о fail-open поведении принимает движок диалога.
type AvailabilityService struct {
	store domain.BookingStore
}

func NewAvailabilityService(store domain.BookingStore) *AvailabilityService {
	return &AvailabilityService{store: store}
}

func (s *AvailabilityService) BookedSlots(ctx context.Context, service string) (map[string]struct{}, error) {
	bookings, err := s.store.ListBookings(ctx, service)
	if err != nil {
		return nil, fmt.Errorf("list bookings for %q: %w", service, err)
	}

	booked := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		booked[b.Slot] = struct{}{}
	}
	return booked, nil
}
