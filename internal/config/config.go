package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration, loaded from the environment.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// OpenAI extraction. An empty key puts the extractor into
	// fallback-only mode.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Nominatim geocoding. The user agent identifies us to the provider
	// and is required by its usage policy.
	NominatimBaseURL   string        `env:"NOMINATIM_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
	NominatimUserAgent string        `env:"NOMINATIM_USER_AGENT" envDefault:"web-slinger-dispatch/1.0"`
	GeocodeTimeout     time.Duration `env:"GEOCODE_TIMEOUT" envDefault:"10s"`
	GeocodeBiasKM      float64       `env:"GEOCODE_BIAS_KM" envDefault:"50"`
	GeocodeMinScore    float64       `env:"GEOCODE_MIN_SCORE" envDefault:"0.5"`

	// Proximity announcements
	ProximityRadiusMiles float64 `env:"PROXIMITY_RADIUS_MILES" envDefault:"3"`

	// Text-to-speech provider. Empty URL means the built-in fallback
	// speaker is used for all announcements.
	TTSBaseURL string        `env:"TTS_BASE_URL"`
	TTSVoice   string        `env:"TTS_VOICE" envDefault:"alloy"`
	TTSTimeout time.Duration `env:"TTS_TIMEOUT" envDefault:"10s"`

	// Speech capture
	SpeechLanguage string        `env:"SPEECH_LANGUAGE" envDefault:"en-US"`
	SpeechTimeout  time.Duration `env:"SPEECH_TIMEOUT" envDefault:"15s"`

	// Announcement webhook delivery
	AnnounceWebhookURL    string        `env:"ANNOUNCE_WEBHOOK_URL"`
	AnnounceWebhookSecret string        `env:"ANNOUNCE_WEBHOOK_SECRET"`
	AnnounceTimeout       time.Duration `env:"ANNOUNCE_TIMEOUT" envDefault:"5s"`
	AnnounceMaxRetries    int           `env:"ANNOUNCE_MAX_RETRIES" envDefault:"3"`
	AnnounceBaseDelay     time.Duration `env:"ANNOUNCE_BASE_DELAY" envDefault:"1s"`

	// Stats Config
	StatsTimeWindowMinutes int `env:"STATS_TIME_WINDOW_MINUTES" envDefault:"60"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig loads the configuration from environment variables and an
// optional .env file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:              os.Getenv("REDIS_PASSWORD"),
		RedisDB:                getEnvAsInt("REDIS_DB", 0),
		OpenAIAPIKey:           os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:            getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		NominatimBaseURL:       getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent:     getEnv("NOMINATIM_USER_AGENT", "web-slinger-dispatch/1.0"),
		GeocodeTimeout:         getEnvAsDuration("GEOCODE_TIMEOUT", 10*time.Second),
		GeocodeBiasKM:          getEnvAsFloat("GEOCODE_BIAS_KM", 50),
		GeocodeMinScore:        getEnvAsFloat("GEOCODE_MIN_SCORE", 0.5),
		ProximityRadiusMiles:   getEnvAsFloat("PROXIMITY_RADIUS_MILES", 3),
		TTSBaseURL:             os.Getenv("TTS_BASE_URL"),
		TTSVoice:               getEnv("TTS_VOICE", "alloy"),
		TTSTimeout:             getEnvAsDuration("TTS_TIMEOUT", 10*time.Second),
		SpeechLanguage:         getEnv("SPEECH_LANGUAGE", "en-US"),
		SpeechTimeout:          getEnvAsDuration("SPEECH_TIMEOUT", 15*time.Second),
		AnnounceWebhookURL:     os.Getenv("ANNOUNCE_WEBHOOK_URL"),
		AnnounceWebhookSecret:  os.Getenv("ANNOUNCE_WEBHOOK_SECRET"),
		AnnounceTimeout:        getEnvAsDuration("ANNOUNCE_TIMEOUT", 5*time.Second),
		AnnounceMaxRetries:     getEnvAsInt("ANNOUNCE_MAX_RETRIES", 3),
		AnnounceBaseDelay:      getEnvAsDuration("ANNOUNCE_BASE_DELAY", time.Second),
		StatsTimeWindowMinutes: getEnvAsInt("STATS_TIME_WINDOW_MINUTES", 60),
	}

	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns an environment variable as an int or a default.
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat returns an environment variable as a float64 or a default.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration returns an environment variable as a time.Duration or a default.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
