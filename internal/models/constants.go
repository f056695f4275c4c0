package models

// Шаги диалога записи.
const (
	StepSelectService = "select_service"
	StepSelectSlot    = "select_slot"
	StepEnterName     = "enter_name"
	StepEnterPhone    = "enter_phone"
	StepConfirm       = "confirm"
)

const (
	// DefaultSessionTTL время жизни сессии диалога в секундах (24 часа).
	// Неактивные диалоги истекают вместо вечного хранения.
	DefaultSessionTTL = 24 * 60 * 60

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений в секундах
	RateLimitWindow = 60

	// WorkerQueueSize размер локальной очереди воркера
	WorkerQueueSize = 128

	// SendRateLimit глобальный лимит исходящих сообщений в секунду
	SendRateLimit = 25
)
