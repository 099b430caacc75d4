package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mdemidenko/homework-bot/config"
	"github.com/mdemidenko/homework-bot/internal/api"
	"github.com/mdemidenko/homework-bot/internal/logger"
	"github.com/mdemidenko/homework-bot/internal/metrics"
	"github.com/mdemidenko/homework-bot/internal/monitor"
	"github.com/mdemidenko/homework-bot/internal/notifier"
	"github.com/mdemidenko/homework-bot/internal/practicum"
	"github.com/mdemidenko/homework-bot/internal/repository"
)

// @title Homework status bot API
// @version 1.0.0
// @description Операторское API бота уведомлений о статусе проверки домашних работ
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, newTelegramBot))
}

// botFactory создает клиент Telegram, в тестах подменяется
type botFactory func(token string, debug bool) (notifier.BotAPI, error)

func newTelegramBot(token string, debug bool) (notifier.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = debug
	return bot, nil
}

func run(args []string, out io.Writer, newBot botFactory) int {
	flags := flag.NewFlagSet("homework-bot", flag.ContinueOnError)
	flags.SetOutput(out)
	configPath := flags.String("config", "", "path to config file")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	// .env не обязателен, переменные могут прийти из окружения
	envErr := godotenv.Load()

	cfg, err := config.LoadConfigWithDefaults(*configPath)
	if err != nil {
		l := logger.NewWithWriter(config.LoggingConfig{Level: "info", Format: "text"}, out)
		logger.Critical(l).Err(err).Msg("Не удалось загрузить конфигурацию")
		return 1
	}

	log := logger.NewWithWriter(cfg.Logging, out)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("Не удалось прочитать .env")
	}
	if cfg.Path() != "" {
		log.Info().Str("path", cfg.Path()).Msg("Конфигурация загружена из файла")
	} else {
		log.Info().Msg("Файл конфигурации не найден, используются значения по умолчанию")
	}

	// Без токенов дальше не идем, до сетевых запросов
	if err := cfg.CheckTokens(); err != nil {
		logger.Critical(log).Err(err).Msg("Отсутствуют обязательные токены, бот остановлен")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	bot, err := newBot(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		logger.Critical(log).Err(err).Msg("Не удалось создать Telegram бота")
		return 1
	}

	storage := repository.NewMemoryStorage(cfg.Monitor.HistorySize)
	telegramService := notifier.NewTelegramService(bot, cfg, storage, log)

	var watermarks repository.WatermarkRepository = repository.NewNopRepository()
	if cfg.Monitor.StateFile != "" {
		watermarks = repository.NewFileRepository(cfg.Monitor.StateFile)
	}

	client := practicum.NewClient(cfg, nil, log)
	svc := monitor.New(client, telegramService, watermarks, log, monitor.Options{
		RetryPeriod: cfg.RetryPeriod(),
		Lookback:    cfg.Lookback(),
	})

	var server *api.Server
	if cfg.Server.Enabled {
		handler := api.NewHandler(telegramService, svc, storage, cfg)
		server = api.NewServer(handler, cfg, log)
		go func() {
			if err := server.Start(); err != nil {
				log.Error().Err(err).Msg("❌ Ошибка сервера")
				stop()
			}
		}()
	}

	if err := svc.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Цикл опроса завершился с ошибкой")
	}

	if server != nil {
		shutdown(server, log)
	}

	log.Info().Msg("👋 Приложение завершено")
	return 0
}

func shutdown(server *api.Server, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn().Err(err).Msg("⚠️  Таймаут graceful shutdown")
	}
}
