package telegram

import (
	"context"
	"log/slog"
	"time"

	"github.com/nevskyi/chat-access-service/internal/infrastructure/telegram"
)

// Revoker отзывает все активные подписки пользователя.
type Revoker interface {
	RevokeAllForUser(ctx context.Context, userID int64) error
}

// MembershipWatcher слушает chat_member-апдейты целевого чата:
// пользователь вышел (или его выгнали руками) - доступ отзывается,
// повторный вход потребует новой оплаты.
type MembershipWatcher struct {
	Client        *telegram.Client
	TargetChatID  int64
	Subscriptions Revoker
}

func NewMembershipWatcher(client *telegram.Client, targetChatID int64, subscriptions Revoker) *MembershipWatcher {
	return &MembershipWatcher{
		Client:        client,
		TargetChatID:  targetChatID,
		Subscriptions: subscriptions,
	}
}

// Run крутит long poll до отмены контекста.
func (w *MembershipWatcher) Run(ctx context.Context) {
	var offset int64

	for {
		if ctx.Err() != nil {
			return
		}

		updates, err := w.Client.GetUpdates(ctx, offset, 30, []string{"chat_member"})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("failed to get telegram updates", "error", err.Error())
			time.Sleep(3 * time.Second)
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			w.handleUpdate(ctx, update)
		}
	}
}

func (w *MembershipWatcher) handleUpdate(ctx context.Context, update telegram.Update) {
	if update.ChatMember == nil {
		return
	}
	if update.ChatMember.Chat.ID != w.TargetChatID {
		return
	}

	status := update.ChatMember.NewChatMember.Status
	if status != "left" && status != "kicked" {
		return
	}

	userID := update.ChatMember.NewChatMember.User.ID
	if err := w.Subscriptions.RevokeAllForUser(ctx, userID); err != nil {
		slog.Error("failed to revoke subscriptions for departed user",
			"user_id", userID, "error", err.Error())
	}
}
