package models

import "time"

// UserModel хранит указатель на последний показанный "экран",
// чтобы новое уведомление заменяло предыдущее сообщение бота.
type UserModel struct {
	UserID              int64 `gorm:"primaryKey;autoIncrement:false"`
	LastScreenChatID    int64
	LastScreenMessageID int64
	CreatedAt           time.Time
}
