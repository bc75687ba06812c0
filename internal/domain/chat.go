package domain

import (
	"context"
	"time"
)

type InviteLink struct {
	URL       string
	ExpiresAt time.Time
}

// ChatGateway - операции над целевым чатом/каналом.
type ChatGateway interface {
	// CreateOneTimeInvite создает одноразовую ссылку (member_limit=1) с TTL
	CreateOneTimeInvite(ctx context.Context, name string, ttl time.Duration) (*InviteLink, error)
	// KickUser - бан+разбан, чтобы пользователь вылетел и мог вернуться только по новой ссылке
	KickUser(ctx context.Context, userID int64) error
	SendMessage(ctx context.Context, chatID int64, text string) (int64, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int64) error
}
