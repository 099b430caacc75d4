package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

// DefaultLookback - первый опрос без сохраненной отметки смотрит на неделю назад
const DefaultLookback = 7 * 24 * 60 * 60

var ErrConfigNotFound = errors.New("config file not found in standard locations")

// Переменные окружения с обязательными токенами
const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

type PracticumConfig struct {
	Token    string `yaml:"token" json:"-"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	// Timeout в секундах, 0 - без таймаута
	Timeout int `yaml:"timeout" json:"timeout"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token" json:"-"`
	ChatID   string `yaml:"chat_id" json:"chat_id"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type MonitorConfig struct {
	RetryPeriod int    `yaml:"retry_period" json:"retry_period"` // секунды между опросами
	Lookback    int    `yaml:"lookback" json:"lookback"`         // насколько назад смотреть при первом опросе, секунды
	StateFile   string `yaml:"state_file" json:"state_file"`
	HistorySize int    `yaml:"history_size" json:"history_size"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret" json:"-"`
	JWTExpiration int    `yaml:"jwt_expiration_hours" json:"jwt_expiration_hours"`
	Login         string `yaml:"login" json:"login"`
	Password      string `yaml:"password" json:"-"`
}

type ServerConfig struct {
	Enabled        bool     `yaml:"enabled" json:"enabled"`
	Port           string   `yaml:"port" json:"port"`
	Host           string   `yaml:"host" json:"host"`
	GinMode        string   `yaml:"gin_mode" json:"gin_mode"`
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`
}

type AppConfig struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version" json:"version"`
	Environment string `yaml:"environment" json:"environment"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type Config struct {
	Practicum PracticumConfig `yaml:"practicum" json:"practicum"`
	Telegram  TelegramConfig  `yaml:"telegram" json:"telegram"`
	Monitor   MonitorConfig   `yaml:"monitor" json:"monitor"`
	App       AppConfig       `yaml:"app" json:"app"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Server    ServerConfig    `yaml:"server" json:"server"`
	Auth      AuthConfig      `yaml:"auth" json:"auth"`

	path string
}

// MissingTokensError перечисляет все отсутствующие токены
type MissingTokensError struct {
	Names []string
}

func (e *MissingTokensError) Error() string {
	return "отсутствуют обязательные переменные окружения: " + strings.Join(e.Names, ", ")
}

// LoadConfig загружает конфигурацию из YAML файла
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = findConfigFile()
		if configPath == "" {
			return nil, ErrConfigNotFound
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Переменные окружения приоритетнее файла
	config.overrideFromEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	config.path = configPath
	return config, nil
}

// LoadConfigWithDefaults загружает конфиг или, если файла нет,
// использует значения по умолчанию с переопределением из окружения
func LoadConfigWithDefaults(configPath string) (*Config, error) {
	config, err := LoadConfig(configPath)
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, err
	}

	config = DefaultConfig()
	config.overrideFromEnv()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Practicum: PracticumConfig{
			Endpoint: DefaultEndpoint,
		},
		Monitor: MonitorConfig{
			RetryPeriod: 600,
			Lookback:    DefaultLookback,
			HistorySize: 100,
		},
		App: AppConfig{
			Name:        "homework-bot",
			Version:     "1.0.0",
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Enabled:        false,
			Port:           "8080",
			Host:           "localhost",
			GinMode:        "release",
			TrustedProxies: []string{"127.0.0.1"},
		},
		Auth: AuthConfig{
			JWTExpiration: 24,
			Login:         "admin",
		},
	}
}

// Validate проверяет валидность конфигурации.
// Токены здесь не проверяются, для этого есть CheckTokens.
func (c *Config) Validate() error {
	if c.Practicum.Endpoint == "" {
		return fmt.Errorf("practicum.endpoint is required")
	}
	if c.Practicum.Timeout < 0 {
		return fmt.Errorf("practicum.timeout must not be negative")
	}
	if c.Monitor.RetryPeriod <= 0 {
		return fmt.Errorf("monitor.retry_period must be positive")
	}
	if c.Monitor.Lookback < 0 {
		return fmt.Errorf("monitor.lookback must not be negative")
	}
	if c.Monitor.HistorySize <= 0 {
		return fmt.Errorf("monitor.history_size must be positive")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	if c.Server.Enabled {
		if c.Server.Port == "" {
			c.Server.Port = "8080"
		}
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required when server is enabled")
		}
		if c.Auth.JWTExpiration <= 0 {
			return fmt.Errorf("auth.jwt_expiration_hours must be positive")
		}
		if c.Auth.Login == "" || c.Auth.Password == "" {
			return fmt.Errorf("auth.login and auth.password are required")
		}
	}

	validEnvironments := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvironments[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s", c.App.Environment)
	}

	return nil
}

// CheckTokens проверяет наличие всех трех токенов
func (c *Config) CheckTokens() error {
	var missing []string
	if strings.TrimSpace(c.Practicum.Token) == "" {
		missing = append(missing, EnvPracticumToken)
	}
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		missing = append(missing, EnvTelegramToken)
	}
	if strings.TrimSpace(c.Telegram.ChatID) == "" {
		missing = append(missing, EnvTelegramChatID)
	}
	if len(missing) > 0 {
		return &MissingTokensError{Names: missing}
	}
	return nil
}

func (c *Config) RetryPeriod() time.Duration {
	return time.Duration(c.Monitor.RetryPeriod) * time.Second
}

func (c *Config) Lookback() time.Duration {
	return time.Duration(c.Monitor.Lookback) * time.Second
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Practicum.Timeout) * time.Second
}

// Path возвращает путь к загруженному файлу, пустой для конфигурации по умолчанию
func (c *Config) Path() string {
	return c.path
}

// IsProduction проверяет, production ли окружение
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// overrideFromEnv переопределяет значения из environment variables
func (c *Config) overrideFromEnv() {
	if token := os.Getenv(EnvPracticumToken); token != "" {
		c.Practicum.Token = token
	}
	if token := os.Getenv(EnvTelegramToken); token != "" {
		c.Telegram.BotToken = token
	}
	if chatID := os.Getenv(EnvTelegramChatID); chatID != "" {
		c.Telegram.ChatID = chatID
	}
	if endpoint := os.Getenv("PRACTICUM_ENDPOINT"); endpoint != "" {
		c.Practicum.Endpoint = endpoint
	}
	if debug := os.Getenv("TELEGRAM_DEBUG"); debug != "" {
		c.Telegram.Debug = debug == "true" || debug == "1"
	}
	if period := os.Getenv("RETRY_PERIOD"); period != "" {
		if p, err := strconv.Atoi(period); err == nil && p > 0 {
			c.Monitor.RetryPeriod = p
		}
	}
	if stateFile := os.Getenv("STATE_FILE"); stateFile != "" {
		c.Monitor.StateFile = stateFile
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
	if enabled := os.Getenv("SERVER_ENABLED"); enabled != "" {
		c.Server.Enabled = enabled == "true" || enabled == "1"
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	// JWT и аутентификация
	if jwtSecret := os.Getenv("AUTH_JWT_SECRET"); jwtSecret != "" {
		c.Auth.JWTSecret = jwtSecret
	}
	if jwtExp := os.Getenv("AUTH_JWT_EXPIRATION_HOURS"); jwtExp != "" {
		if exp, err := strconv.Atoi(jwtExp); err == nil && exp > 0 {
			c.Auth.JWTExpiration = exp
		}
	}
	if login := os.Getenv("AUTH_LOGIN"); login != "" {
		c.Auth.Login = login
	}
	if password := os.Getenv("AUTH_PASSWORD"); password != "" {
		c.Auth.Password = password
	}
}

// findConfigFile ищет конфигурационный файл в стандартных местах
func findConfigFile() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}

	possiblePaths := []string{
		filepath.Join(wd, "config.yml"),
		filepath.Join(wd, "config.yaml"),
		filepath.Join(wd, "configs", "config.yml"),
		filepath.Join(wd, "configs", "config.yaml"),
	}
	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
