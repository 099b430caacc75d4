package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdemidenko/homework-bot/internal/metrics"
	"github.com/mdemidenko/homework-bot/internal/practicum"
	"github.com/mdemidenko/homework-bot/internal/repository"
)

const failurePrefix = "Сбой в работе программы: "

// Fetcher запрашивает изменения статусов начиная с timestamp
type Fetcher interface {
	GetAPIAnswer(ctx context.Context, timestamp int64) (any, error)
}

// Notifier отправляет сообщение в чат и сам обрабатывает ошибки отправки
type Notifier interface {
	Send(ctx context.Context, text string)
}

type Service interface {
	Run(ctx context.Context) error
	Status() Snapshot
}

// Snapshot - состояние цикла для API статуса
type Snapshot struct {
	Watermark   int64     `json:"watermark"`
	LastMessage string    `json:"last_message"`
	LastPoll    time.Time `json:"last_poll"`
	LastError   string    `json:"last_error,omitempty"`
	LastErrKind string    `json:"last_error_kind,omitempty"`
	Iterations  int64     `json:"iterations"`
	Failures    int64     `json:"failures"`
}

type Options struct {
	RetryPeriod time.Duration
	Lookback    time.Duration
	// Now подменяется в тестах
	Now func() time.Time
}

type service struct {
	client   Fetcher
	notifier Notifier
	repo     repository.WatermarkRepository
	logger   zerolog.Logger
	opts     Options

	mu       sync.RWMutex
	snapshot Snapshot
}

// loopState принадлежит только циклу опроса
type loopState struct {
	timestamp   int64
	lastMessage string
}

func New(client Fetcher, notifier Notifier, repo repository.WatermarkRepository, logger zerolog.Logger, opts Options) Service {
	return newService(client, notifier, repo, logger, opts)
}

func newService(client Fetcher, notifier Notifier, repo repository.WatermarkRepository, logger zerolog.Logger, opts Options) *service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if repo == nil {
		repo = repository.NewNopRepository()
	}
	return &service{
		client:   client,
		notifier: notifier,
		repo:     repo,
		logger:   logger.With().Str("component", "monitor").Logger(),
		opts:     opts,
	}
}

// Run крутит цикл опроса до отмены контекста. Любая ошибка итерации
// логируется и, если текст новый, отправляется в чат.
func (s *service) Run(ctx context.Context) error {
	st := loopState{timestamp: s.initialTimestamp()}
	s.logger.Info().
		Int64("from_date", st.timestamp).
		Dur("retry_period", s.opts.RetryPeriod).
		Msg("Бот запущен")

	for {
		s.iterate(ctx, &st)

		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Бот остановлен")
			return nil
		case <-time.After(s.opts.RetryPeriod):
		}
	}
}

func (s *service) Status() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *service) initialTimestamp() int64 {
	saved, ok, err := s.repo.Load()
	if err != nil {
		s.logger.Error().Err(err).Msg("Не удалось прочитать сохраненную отметку времени")
	}
	if ok {
		return saved
	}
	return s.opts.Now().Add(-s.opts.Lookback).Unix()
}

// iterate выполняет одну итерацию: опрос, проверку, разбор и уведомление
func (s *service) iterate(ctx context.Context, st *loopState) {
	err := s.poll(ctx, st)
	if err != nil && ctx.Err() != nil {
		// остановка процесса, а не сбой API
		return
	}

	if err != nil {
		s.handleFailure(ctx, st, err)
	}
	s.publish(st, err)
}

func (s *service) poll(ctx context.Context, st *loopState) error {
	body, err := s.client.GetAPIAnswer(ctx, st.timestamp)
	if err != nil {
		return err
	}

	homeworks, err := CheckResponse(body)
	if err != nil {
		return err
	}
	currentDate, err := CurrentDate(body)
	if err != nil {
		return err
	}

	if len(homeworks) > 0 {
		message, err := ParseStatus(homeworks[0])
		if err != nil {
			return err
		}
		s.logger.Info().Str("message", message).Msg("Статус домашней работы изменился")
		s.notifier.Send(ctx, message)
		st.lastMessage = message
		metrics.PollsTotal.WithLabelValues("changed").Inc()
	} else {
		s.logger.Debug().Msg("Статус домашнего задания не изменился")
		metrics.PollsTotal.WithLabelValues("no_change").Inc()
	}

	st.timestamp = currentDate
	metrics.Watermark.Set(float64(currentDate))
	if err := s.repo.Save(currentDate); err != nil {
		// отметка в памяти уже сдвинута, опрос продолжит работать
		s.logger.Error().Err(err).Msg("Не удалось сохранить отметку времени")
	}
	return nil
}

func (s *service) handleFailure(ctx context.Context, st *loopState, err error) {
	kind := ErrorKind(err)
	metrics.PollsTotal.WithLabelValues("error").Inc()
	metrics.PollFailures.WithLabelValues(kind).Inc()

	message := failurePrefix + err.Error()
	s.logger.Error().Str("kind", kind).Err(err).Msg(message)

	if message == st.lastMessage {
		s.logger.Debug().Msg("Повторный сбой, уведомление не отправляется")
		return
	}
	s.notifier.Send(ctx, message)
	st.lastMessage = message
}

func (s *service) publish(st *loopState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Watermark = st.timestamp
	s.snapshot.LastMessage = st.lastMessage
	s.snapshot.LastPoll = s.opts.Now().UTC()
	s.snapshot.Iterations++
	if err != nil {
		s.snapshot.Failures++
		s.snapshot.LastError = err.Error()
		s.snapshot.LastErrKind = ErrorKind(err)
	} else {
		s.snapshot.LastError = ""
		s.snapshot.LastErrKind = ""
	}
}

// ErrorKind классифицирует ошибку итерации для логов и метрик
func ErrorKind(err error) string {
	var connErr *practicum.ConnectionError
	var respErr *practicum.ResponseError

	switch {
	case errors.As(err, &connErr):
		return "connection"
	case errors.As(err, &respErr):
		return "response"
	case errors.Is(err, practicum.ErrDecode):
		return "decode"
	case errors.Is(err, ErrUnexpectedType):
		return "type"
	case errors.Is(err, ErrMissingKey):
		return "missing_key"
	case errors.Is(err, ErrUnknownStatus):
		return "unknown_status"
	default:
		return "unknown"
	}
}
