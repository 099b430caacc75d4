package repository

import (
	"fmt"
	"sync"

	"github.com/mdemidenko/homework-bot/internal/models"
)

const DefaultHistorySize = 100

type Storage interface {
	Store(entity any) error
	GetNotifications() []*models.Notification
	GetSentNotifications() []*models.SentNotification
}

// MemoryStorage хранит последние уведомления в памяти процесса.
// Старые записи вытесняются по достижении лимита.
type MemoryStorage struct {
	mu                sync.RWMutex
	limit             int
	notifications     []*models.Notification
	sentNotifications []*models.SentNotification
}

func NewMemoryStorage(limit int) *MemoryStorage {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &MemoryStorage{
		limit:             limit,
		notifications:     make([]*models.Notification, 0),
		sentNotifications: make([]*models.SentNotification, 0),
	}
}

func (m *MemoryStorage) Store(entity any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch v := entity.(type) {
	case *models.Notification:
		m.notifications = trim(append(m.notifications, v), m.limit)
		return nil
	case *models.SentNotification:
		m.sentNotifications = trim(append(m.sentNotifications, v), m.limit)
		return nil
	default:
		return fmt.Errorf("unsupported entity type: %T", v)
	}
}

// GetNotifications возвращает копию списка
func (m *MemoryStorage) GetNotifications() []*models.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

func (m *MemoryStorage) GetSentNotifications() []*models.SentNotification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.SentNotification, len(m.sentNotifications))
	copy(out, m.sentNotifications)
	return out
}

func trim[T any](items []T, limit int) []T {
	if len(items) <= limit {
		return items
	}
	return append(items[:0:0], items[len(items)-limit:]...)
}
