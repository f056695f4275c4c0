package models

import "time"

// Типы задач очереди доставки.
const (
	SyncTaskAppendBooking = "append_booking"
	SyncTaskNotify        = "notify_operator"
)

// Статусы задач очереди доставки.
const (
	SyncStatusPending   = "pending"
	SyncStatusRetry     = "retry"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// SyncTask — отложенная задача повторной доставки: запись в Google Sheets
// или уведомление оператору, которые не удались синхронно.
type SyncTask struct {
	ID          int64      `json:"id"`
	TaskType    string     `json:"task_type"`
	Payload     string     `json:"payload"`
	Status      string     `json:"status"`
	RetryCount  int        `json:"retry_count"`
	LastError   *string    `json:"last_error"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at"`
	NextRetryAt *time.Time `json:"next_retry_at"`
}
