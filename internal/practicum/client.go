package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mdemidenko/homework-bot/config"
	"github.com/mdemidenko/homework-bot/internal/metrics"
)

var ErrDecode = errors.New("ответ API не является корректным JSON")

// ConnectionError - запрос не дошел до API или ответ не был получен
type ConnectionError struct {
	Endpoint string
	Params   url.Values
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("ошибка соединения с %s, параметры %s: %v", e.Endpoint, e.Params.Encode(), e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ResponseError - API ответил статусом, отличным от 200
type ResponseError struct {
	StatusCode int
	Reason     string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("ошибка ответа API: %d %s", e.StatusCode, e.Reason)
}

type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(cfg *config.Config, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout()}
	}
	return &Client{
		endpoint:   cfg.Practicum.Endpoint,
		token:      cfg.Practicum.Token,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "practicum").Logger(),
	}
}

// GetAPIAnswer запрашивает статусы работ, измененные начиная с timestamp.
// Тело ответа возвращается как есть, проверка формы - забота вызывающего.
func (c *Client) GetAPIAnswer(ctx context.Context, timestamp int64) (any, error) {
	params := url.Values{}
	params.Set("from_date", strconv.FormatInt(timestamp, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &ConnectionError{Endpoint: c.endpoint, Params: params, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	c.logger.Debug().
		Str("request_id", requestID).
		Int64("from_date", timestamp).
		Msg("Запрос к API")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.PollDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &ConnectionError{Endpoint: c.endpoint, Params: params, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ResponseError{StatusCode: resp.StatusCode, Reason: reasonPhrase(resp)}
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var body any
	if err := decoder.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Msg("Ответ API получен")

	return body, nil
}

// reasonPhrase берет фразу из строки статуса ответа, а не из таблицы net/http
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		return http.StatusText(resp.StatusCode)
	}
	return reason
}
