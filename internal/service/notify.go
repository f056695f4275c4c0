package service

import (
	"context"
	"fmt"

	"zapisbot/internal/domain"
)

// OperatorNotifier доставляет служебные сообщения в личный чат оператора.
type OperatorNotifier struct {
	tg     domain.TelegramService
	chatID int64
}

func NewOperatorNotifier(tg domain.TelegramService, chatID int64) *OperatorNotifier {
	return &OperatorNotifier{tg: tg, chatID: chatID}
}

func (n *OperatorNotifier) Notify(ctx context.Context, text string) error {
	if n.chatID == 0 {
		return fmt.Errorf("operator chat is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := n.tg.SendMessage(n.chatID, text); err != nil {
		return fmt.Errorf("notify operator: %w", err)
	}
	return nil
}
