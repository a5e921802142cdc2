// Package config предоставляет загрузку конфигурации приложения из переменных окружения.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все параметры конфигурации приложения.
// Значения загружаются из переменных окружения с fallback на значения по умолчанию.
type Config struct {
	AppPort string // Порт для HTTP сервера

	ElasticsearchURL   string // URL для подключения к Elasticsearch/OpenSearch
	ElasticsearchIndex string // Индекс очищенных происшествий

	PostgresEnabled  bool   // Использовать справочники PostgreSQL
	PostgresHost     string // Хост PostgreSQL
	PostgresPort     string // Порт PostgreSQL
	PostgresUser     string // Пользователь PostgreSQL
	PostgresPassword string // Пароль PostgreSQL
	PostgresDB       string // Имя базы данных PostgreSQL

	RedisURL string // Пустое значение отключает кэш в Redis

	DataFile          string        // CSV с историей происшествий
	DataEncoding      string        // utf-8 или windows-1252
	HourSentinel      int           // Значение колонки HORA, означающее "час неизвестен"
	SourceReadTimeout time.Duration // Таймаут чтения источника
	ForecastCatalog   string        // YAML каталог предрасчитанных прогнозов
	TopN              int           // Размер рейтингов по районам и квадрантам

	UploadMaxBytes   int64   // Максимальный размер загружаемого прогноза
	UploadRatePerSec float64 // Лимит загрузок в секунду
	UploadBurst      int

	LogLevel  string
	LogFormat string // json или console
}

// Load загружает конфигурацию из .env файла (если есть) и переменных окружения.
// Если переменная не установлена, используется значение по умолчанию.
func Load() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:            getEnv("APP_PORT", "8080"),
		ElasticsearchURL:   getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
		ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "incidents"),
		PostgresHost:       getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:       getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:       getEnv("POSTGRES_USER", "analytical_user"),
		PostgresPassword:   getEnv("POSTGRES_PASSWORD", "analytical_pass"),
		PostgresDB:         getEnv("POSTGRES_DB", "analytical_db"),
		RedisURL:           getEnv("REDIS_URL", ""),
		DataFile:           getEnv("DATA_FILE", "data/robos_tot_final.csv"),
		DataEncoding:       getEnv("DATA_ENCODING", "utf-8"),
		ForecastCatalog:    getEnv("FORECAST_CATALOG", "configs/forecasts.yaml"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.PostgresEnabled, err = getEnvAsBool("POSTGRES_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.HourSentinel, err = getEnvAsInt("HOUR_SENTINEL", 99); err != nil {
		return nil, err
	}
	if cfg.SourceReadTimeout, err = getEnvAsDuration("SOURCE_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.TopN, err = getEnvAsInt("TOP_N", 10); err != nil {
		return nil, err
	}
	maxBytes, err := getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	cfg.UploadMaxBytes = int64(maxBytes)
	if cfg.UploadRatePerSec, err = getEnvAsFloat("UPLOAD_RATE_PER_SEC", 2); err != nil {
		return nil, err
	}
	if cfg.UploadBurst, err = getEnvAsInt("UPLOAD_BURST", 5); err != nil {
		return nil, err
	}

	if cfg.TopN <= 0 {
		return nil, fmt.Errorf("invalid value for TOP_N: must be positive, got %d", cfg.TopN)
	}

	return cfg, nil
}

// PostgresDSN собирает строку подключения к PostgreSQL.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresDB,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an integer, got '%s'", key, valueStr)
	}

	return value, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected a number, got '%s'", key, valueStr)
	}

	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, fmt.Errorf("invalid value for %s: expected a boolean, got '%s'", key, valueStr)
	}

	return value, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected a duration, got '%s'", key, valueStr)
	}

	return value, nil
}
