package config

import "os"

type AppConfig struct {
	Name    string
	Env     string
	Port    string
	BaseURL string
}

func loadAppConfig() AppConfig {
	return AppConfig{
		Name:    getenv("APP_NAME", "jobconnect"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("APP_PORT", ":8080"),
		BaseURL: os.Getenv("APP_URL"),
	}
}
