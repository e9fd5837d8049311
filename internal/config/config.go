package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config aggregates every section read from the environment. It is built once
// in main and passed by reference into component constructors; nothing in this
// package keeps global state.
type Config struct {
	App      AppConfig
	DB       DBConfig
	Gemini   GeminiConfig
	Paystack PaystackConfig
	WhatsApp WhatsAppConfig
	Telegram TelegramConfig
	SMTP     SMTPConfig
	Clamd    ClamdConfig
}

func Load() (*Config, error) {
	cfg := &Config{
		App:      loadAppConfig(),
		DB:       loadDBConfig(),
		Gemini:   loadGeminiConfig(),
		Paystack: loadPaystackConfig(),
		WhatsApp: loadWhatsAppConfig(),
		Telegram: loadTelegramConfig(),
		SMTP:     loadSMTPConfig(),
		Clamd:    loadClamdConfig(),
	}
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if cfg.Paystack.SecretKey == "" {
		return nil, fmt.Errorf("PAYSTACK_SECRET_KEY not set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt64(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
