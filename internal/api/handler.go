package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mdemidenko/homework-bot/config"
	"github.com/mdemidenko/homework-bot/internal/models"
	"github.com/mdemidenko/homework-bot/internal/monitor"
	"github.com/mdemidenko/homework-bot/internal/repository"
)

// HealthChecker проверяет доступность Telegram бота
type HealthChecker interface {
	HealthCheck() error
}

// StatusSource отдает снимок состояния цикла опроса
type StatusSource interface {
	Status() monitor.Snapshot
}

type Handler struct {
	health  HealthChecker
	monitor StatusSource
	storage repository.Storage
	cfg     *config.Config
}

func NewHandler(health HealthChecker, mon StatusSource, storage repository.Storage, cfg *config.Config) *Handler {
	return &Handler{
		health:  health,
		monitor: mon,
		storage: storage,
		cfg:     cfg,
	}
}

// HealthResponse представляет ответ на запрос проверки здоровья
// @Description Ответ сервиса на запрос проверки состояния
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Timestamp string `json:"timestamp" example:"2024-01-01T12:00:00Z"`
	App       string `json:"app" example:"homework-bot"`
	Version   string `json:"version" example:"1.0.0"`
}

// HealthHandler проверяет здоровье сервиса
// @Summary Проверка состояния сервиса
// @Description Проверяет доступность Telegram API
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/health [get]
func (h *Handler) HealthHandler(c *gin.Context) {
	if err := h.health.HealthCheck(); err != nil {
		abort(c, ServiceUnavailableError("Telegram service unavailable: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		App:       h.cfg.App.Name,
		Version:   h.cfg.App.Version,
	})
}

// StatusResponse представляет ответ со статусом цикла опроса
// @Description Текущее состояние опроса API и статистика уведомлений
type StatusResponse struct {
	Success bool `json:"success" example:"true"`
	Data    struct {
		Monitor monitor.Snapshot `json:"monitor"`
		Stats   struct {
			TotalNotifications     int `json:"total_notifications" example:"15"`
			TotalSentNotifications int `json:"total_sent_notifications" example:"12"`
		} `json:"stats"`
		Config struct {
			AppName     string `json:"app_name" example:"homework-bot"`
			AppVersion  string `json:"app_version" example:"1.0.0"`
			Environment string `json:"environment" example:"development"`
			RetryPeriod int    `json:"retry_period" example:"600"`
		} `json:"config"`
		Timestamp string `json:"timestamp" example:"2024-01-01T12:00:00Z"`
	} `json:"data"`
}

// StatusHandler возвращает статус цикла опроса
// @Summary Статус цикла опроса
// @Tags status
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatusResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/status [get]
func (h *Handler) StatusHandler(c *gin.Context) {
	var resp StatusResponse
	resp.Success = true
	resp.Data.Monitor = h.monitor.Status()
	resp.Data.Stats.TotalNotifications = len(h.storage.GetNotifications())
	resp.Data.Stats.TotalSentNotifications = len(h.storage.GetSentNotifications())
	resp.Data.Config.AppName = h.cfg.App.Name
	resp.Data.Config.AppVersion = h.cfg.App.Version
	resp.Data.Config.Environment = h.cfg.App.Environment
	resp.Data.Config.RetryPeriod = h.cfg.Monitor.RetryPeriod
	resp.Data.Timestamp = time.Now().UTC().Format(time.RFC3339)

	c.JSON(http.StatusOK, resp)
}

// NotificationsResponse представляет ответ со списком уведомлений
// @Description Последние уведомления, созданные для отправки
type NotificationsResponse struct {
	Success bool `json:"success" example:"true"`
	Data    struct {
		Count         int                    `json:"count" example:"5"`
		Notifications []*models.Notification `json:"notifications"`
	} `json:"data"`
}

// NotificationsHandler возвращает последние уведомления
// @Summary Последние уведомления
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} NotificationsResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/notifications [get]
func (h *Handler) NotificationsHandler(c *gin.Context) {
	var resp NotificationsResponse
	resp.Success = true
	resp.Data.Notifications = h.storage.GetNotifications()
	resp.Data.Count = len(resp.Data.Notifications)
	c.JSON(http.StatusOK, resp)
}

// SentNotificationsResponse представляет ответ со списком отправленных уведомлений
// @Description Уведомления, подтвержденные Telegram
type SentNotificationsResponse struct {
	Success bool `json:"success" example:"true"`
	Data    struct {
		Count             int                        `json:"count" example:"3"`
		SentNotifications []*models.SentNotification `json:"sent_notifications"`
	} `json:"data"`
}

// SentNotificationsHandler возвращает отправленные уведомления
// @Summary Отправленные уведомления
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SentNotificationsResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/notifications/sent [get]
func (h *Handler) SentNotificationsHandler(c *gin.Context) {
	var resp SentNotificationsResponse
	resp.Success = true
	resp.Data.SentNotifications = h.storage.GetSentNotifications()
	resp.Data.Count = len(resp.Data.SentNotifications)
	c.JSON(http.StatusOK, resp)
}
