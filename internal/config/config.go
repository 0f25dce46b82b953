package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAdvisorBaseURL     = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultAdvisorModel       = "gemini-2.0-flash"
	DefaultAdvisorTimeout     = 20 * time.Second
	DefaultPlanDaysAhead      = 7
	DefaultRegenerateSchedule = "0 3 * * 1"
	defaultEnvironment        = "development"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string
	LogLevel      string

	AdvisorAPIKey  string
	AdvisorBaseURL string
	AdvisorModel   string
	AdvisorTimeout time.Duration

	PlanDaysAhead int
	// RegenerateSchedule cron выражение фоновой перегенерации, пустое - выключено
	RegenerateSchedule string
	Location           *time.Location
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// FromEnv читает конфигурацию из переменных окружения
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBDSN:              os.Getenv("DB_DSN"),
		TelegramToken:      os.Getenv("TELEGRAM_TOKEN"),
		Environment:        getEnv("ENV", defaultEnvironment),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		AdvisorAPIKey:      os.Getenv("ADVISOR_API_KEY"),
		AdvisorBaseURL:     getEnv("ADVISOR_BASE_URL", DefaultAdvisorBaseURL),
		AdvisorModel:       getEnv("ADVISOR_MODEL", DefaultAdvisorModel),
		AdvisorTimeout:     DefaultAdvisorTimeout,
		PlanDaysAhead:      DefaultPlanDaysAhead,
		RegenerateSchedule: DefaultRegenerateSchedule,
		Location:           time.Local,
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	if v := os.Getenv("ADVISOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid ADVISOR_TIMEOUT %q", v)
		}
		cfg.AdvisorTimeout = d
	}

	if v := os.Getenv("PLAN_DAYS_AHEAD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid PLAN_DAYS_AHEAD %q", v)
		}
		cfg.PlanDaysAhead = n
	}

	// Пустое значение явно выключает фоновую перегенерацию
	if v, ok := os.LookupEnv("REGENERATE_SCHEDULE"); ok {
		cfg.RegenerateSchedule = v
	}

	if v := os.Getenv("TIMEZONE"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE %q: %w", v, err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
