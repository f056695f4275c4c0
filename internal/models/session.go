package models

// Session хранит состояние диалога записи для одного пользователя.
// Поля заполняются по мере прохождения шагов и не очищаются при
// навигации "Назад" раньше целевого шага.
type Session struct {
	UserID  int64  `json:"user_id"`
	ChatID  int64  `json:"chat_id"`
	Step    string `json:"step"`
	Service string `json:"service,omitempty"`
	Slot    string `json:"slot,omitempty"`
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Reset очищает накопленные поля диалога, оставляя идентификаторы.
// Используется при повторной записи ("Записаться ещё раз").
func (s *Session) Reset() {
	s.Service = ""
	s.Slot = ""
	s.Name = ""
	s.Phone = ""
}
