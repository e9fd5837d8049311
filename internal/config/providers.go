package config

import "os"

type GeminiConfig struct {
	APIKey string
	Model  string
}

func loadGeminiConfig() GeminiConfig {
	return GeminiConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  getenv("GEMINI_MODEL", "gemini-2.5-flash"),
	}
}

type PaystackConfig struct {
	SecretKey string
	BaseURL   string
	// AmountKobo is the one-time access fee charged per identifier.
	AmountKobo  int64
	CallbackURL string
}

func loadPaystackConfig() PaystackConfig {
	amount := int64(500000) // NGN 5,000 default
	if v := os.Getenv("PAYSTACK_AMOUNT_KOBO"); v != "" {
		amount = parseInt64(v, amount)
	}
	return PaystackConfig{
		SecretKey:   os.Getenv("PAYSTACK_SECRET_KEY"),
		BaseURL:     getenv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		AmountKobo:  amount,
		CallbackURL: os.Getenv("PAYSTACK_CALLBACK_URL"),
	}
}

type WhatsAppConfig struct {
	Token         string
	PhoneNumberID string
	BaseURL       string
}

func loadWhatsAppConfig() WhatsAppConfig {
	return WhatsAppConfig{
		Token:         os.Getenv("WHATSAPP_TOKEN"),
		PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		BaseURL:       getenv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v19.0"),
	}
}

type TelegramConfig struct {
	Token string
}

func loadTelegramConfig() TelegramConfig {
	return TelegramConfig{Token: os.Getenv("TELEGRAM_BOT_TOKEN")}
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func loadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:     getenv("SMTP_HOST", "localhost"),
		Port:     int(parseInt64(getenv("SMTP_PORT", "587"), 587)),
		User:     os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getenv("SMTP_FROM", "no-reply@jobconnect.app"),
	}
}

type ClamdConfig struct {
	Address string
}

func loadClamdConfig() ClamdConfig {
	return ClamdConfig{Address: getenv("CLAMD_ADDRESS", "tcp://localhost:3310")}
}
