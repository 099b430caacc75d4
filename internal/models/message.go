package models

import "time"

// Notification модель для отправки уведомления
type Notification struct {
	ChatID    string    `json:"chat_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SentNotification модель отправленного уведомления
type SentNotification struct {
	MessageID int64     `json:"message_id"`
	ChatID    int64     `json:"chat_id"`
	SentAt    time.Time `json:"sent_at"`
}

// NewNotification создает новое уведомление
func NewNotification(chatID, text string) *Notification {
	return &Notification{
		ChatID:    chatID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}
