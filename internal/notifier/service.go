package notifier

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/mdemidenko/homework-bot/config"
	"github.com/mdemidenko/homework-bot/internal/metrics"
	"github.com/mdemidenko/homework-bot/internal/models"
	"github.com/mdemidenko/homework-bot/internal/repository"
)

// BotAPI - часть *tgbotapi.BotAPI, которая нужна сервису
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetMe() (tgbotapi.User, error)
}

type TelegramService struct {
	bot     BotAPI
	chatID  string
	debug   bool
	storage repository.Storage
	logger  zerolog.Logger
}

func NewTelegramService(bot BotAPI, cfg *config.Config, storage repository.Storage, logger zerolog.Logger) *TelegramService {
	return &TelegramService{
		bot:     bot,
		chatID:  strings.TrimSpace(cfg.Telegram.ChatID),
		debug:   cfg.Telegram.Debug,
		storage: storage,
		logger:  logger.With().Str("component", "notifier").Logger(),
	}
}

// Send отправляет сообщение в чат. Ошибка отправки только логируется
// и не прерывает цикл опроса.
func (s *TelegramService) Send(ctx context.Context, text string) {
	if _, err := s.SendNotification(ctx, text); err != nil {
		s.logger.Error().Err(err).Msg("Не удалось отправить сообщение")
		return
	}
	s.logger.Debug().Msg("Сообщение отправлено")
}

// SendNotification отправляет уведомление в Telegram
func (s *TelegramService) SendNotification(ctx context.Context, text string) (*models.SentNotification, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("operation cancelled: %w", err)
	}

	notification := models.NewNotification(s.chatID, text)
	if err := s.storage.Store(notification); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to store notification")
	}

	msg, err := s.newMessage(text)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if s.debug {
		s.logger.Debug().Str("chat_id", s.chatID).Str("text", text).Msg("Sending notification")
	}

	sent, err := s.bot.Send(msg)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("telegram API error: %w", err)
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()

	result := &models.SentNotification{
		MessageID: int64(sent.MessageID),
		SentAt:    time.Now().UTC(),
	}
	if sent.Chat != nil {
		result.ChatID = sent.Chat.ID
	}
	if err := s.storage.Store(result); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to store sent notification")
	}

	return result, nil
}

// newMessage поддерживает числовой chat id и @username канала
func (s *TelegramService) newMessage(text string) (tgbotapi.MessageConfig, error) {
	if id, err := strconv.ParseInt(s.chatID, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text), nil
	}
	if strings.HasPrefix(s.chatID, "@") {
		return tgbotapi.NewMessageToChannel(s.chatID, text), nil
	}
	return tgbotapi.MessageConfig{}, fmt.Errorf("invalid chat id %q", s.chatID)
}

// HealthCheck проверяет доступность бота
func (s *TelegramService) HealthCheck() error {
	if _, err := s.bot.GetMe(); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}
