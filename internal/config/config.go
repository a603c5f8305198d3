// Package config загружает настройки сервера и клиента из окружения.
// Необязательный файл .env подхватывается через godotenv; переменные окружения,
// заданные явно, имеют приоритет над значениями из файла.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig настройки сервера синхронизации
type ServerConfig struct {
	Addr             string
	DBPath           string
	LogLevel         string
	LogFormat        string
	WindowDays       int
	RateLimit        int
	RateLimitEnabled bool
	ShutdownTimeout  time.Duration
	WebSocket        WebSocketConfig
}

// WebSocketConfig тайминги websocket соединений
type WebSocketConfig struct {
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration
	SendBuffer int
}

// ClientConfig настройки CLI клиента
type ClientConfig struct {
	ServerURL  string
	DBPath     string
	ClientName string
	LogLevel   string
	Timeout    time.Duration
}

// LoadServer читает конфигурацию сервера из .env файлов и окружения
func LoadServer(envFiles ...string) (*ServerConfig, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	shutdown, err := getEnvAsDuration("HABITSYNC_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	writeWait, err := getEnvAsDuration("HABITSYNC_WS_WRITE_WAIT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	pongWait, err := getEnvAsDuration("HABITSYNC_WS_PONG_WAIT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	pingPeriod, err := getEnvAsDuration("HABITSYNC_WS_PING_PERIOD", pongWait*9/10)
	if err != nil {
		return nil, err
	}

	cfg := &ServerConfig{
		Addr:             getEnv("HABITSYNC_ADDR", ":8080"),
		DBPath:           getEnv("HABITSYNC_DB", "habitsync.db"),
		LogLevel:         getEnv("HABITSYNC_LOG_LEVEL", "info"),
		LogFormat:        getEnv("HABITSYNC_LOG_FORMAT", "text"),
		WindowDays:       getEnvAsInt("HABITSYNC_ENTRY_WINDOW_DAYS", 7),
		RateLimit:        getEnvAsInt("HABITSYNC_RATE_LIMIT", 600),
		RateLimitEnabled: getEnvAsBool("HABITSYNC_RATE_LIMIT_ENABLED", true),
		ShutdownTimeout:  shutdown,
		WebSocket: WebSocketConfig{
			WriteWait:  writeWait,
			PongWait:   pongWait,
			PingPeriod: pingPeriod,
			SendBuffer: getEnvAsInt("HABITSYNC_WS_SEND_BUFFER", 16),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек сервера
func (c *ServerConfig) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("listen address cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("database path cannot be empty"))
	}
	if c.WindowDays <= 0 {
		errs = append(errs, fmt.Errorf("entry window must be positive, got %d", c.WindowDays))
	}
	if c.RateLimitEnabled && c.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("rate limit must be positive, got %d", c.RateLimit))
	}
	if c.WebSocket.PingPeriod >= c.WebSocket.PongWait {
		errs = append(errs, errors.New("websocket ping period must be shorter than pong wait"))
	}
	if c.WebSocket.SendBuffer <= 0 {
		errs = append(errs, fmt.Errorf("websocket send buffer must be positive, got %d", c.WebSocket.SendBuffer))
	}
	return errors.Join(errs...)
}

// LoadClient читает конфигурацию клиента из .env файлов и окружения
func LoadClient(envFiles ...string) (*ClientConfig, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	timeout, err := getEnvAsDuration("HABITSYNC_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &ClientConfig{
		ServerURL:  getEnv("HABITSYNC_SERVER", "http://localhost:8080"),
		DBPath:     getEnv("HABITSYNC_CLIENT_DB", "habitsync-client.db"),
		ClientName: getEnv("HABITSYNC_CLIENT_NAME", ""),
		LogLevel:   getEnv("HABITSYNC_LOG_LEVEL", "warn"),
		Timeout:    timeout,
	}
	return cfg, nil
}

// loadEnvFiles загружает .env файлы; отсутствие файла не считается ошибкой
func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
