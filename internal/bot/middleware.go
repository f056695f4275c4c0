package bot

import "sync"

func (b *Bot) withRecovery(handler func()) {
	defer func() {
		if r := recover(); r != nil {
			if b.metrics != nil {
				b.metrics.ErrorsTotal.Inc()
			}
			b.logger.Error().Interface("panic", r).Msg("Recovered from panic in update handler")
		}
	}()
	handler()
}

// userLocks сериализует обработку обновлений одного пользователя.
// Сессия читается и пишется целиком, без блокировки два быстрых
// нажатия могли бы затереть шаги друг друга.
type userLocks struct {
	mu sync.Map // int64 -> *sync.Mutex
}

func (l *userLocks) lock(userID int64) func() {
	v, _ := l.mu.LoadOrStore(userID, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
