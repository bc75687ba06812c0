package telegram

import (
	"context"
	"log/slog"
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
)

// Gateway реализует domain.ChatGateway поверх Bot API для одного целевого чата.
type Gateway struct {
	client       *Client
	targetChatID int64
}

func NewGateway(client *Client, targetChatID int64) *Gateway {
	return &Gateway{client: client, targetChatID: targetChatID}
}

func (g *Gateway) CreateOneTimeInvite(ctx context.Context, name string, ttl time.Duration) (*domain.InviteLink, error) {
	expiresAt := time.Now().UTC().Add(ttl)
	link, err := g.client.CreateChatInviteLink(ctx, g.targetChatID, name, 1, expiresAt)
	if err != nil {
		return nil, err
	}
	return &domain.InviteLink{URL: link.InviteLink, ExpiresAt: expiresAt}, nil
}

// KickUser - бан, затем разбан, чтобы не оставлять вечный бан.
// Неудачный бан возвращаем как ошибку: подписка остается due и кик
// повторится на следующем тике. Неудачный разбан только логируем.
func (g *Gateway) KickUser(ctx context.Context, userID int64) error {
	if err := g.client.BanChatMember(ctx, g.targetChatID, userID); err != nil {
		return err
	}
	if err := g.client.UnbanChatMember(ctx, g.targetChatID, userID); err != nil {
		slog.Error("failed to unban user after kick", "user_id", userID, "error", err.Error())
	}
	return nil
}

func (g *Gateway) SendMessage(ctx context.Context, chatID int64, text string) (int64, error) {
	msg, err := g.client.SendMessage(ctx, chatID, text)
	if err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

func (g *Gateway) DeleteMessage(ctx context.Context, chatID int64, messageID int64) error {
	return g.client.DeleteMessage(ctx, chatID, messageID)
}
