package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultAPIURL  = "https://api.openweathermap.org/data/2.5"
	defaultIconURL = "http://openweathermap.org/img/w/"
)

type Config struct {
	APIURL         string
	APIKey         string
	IconURL        string
	ServerPort     string
	LogLevel       string
	RateLimitRPS   float64 // 0 - без ограничения
	RateLimitBurst int
}

// Load читает конфигурацию один раз при старте
func Load() (*Config, error) {
	// Загружаем .env файл если существует
	godotenv.Load()

	config := &Config{
		APIURL:         getEnv("WEATHER_API_URL", defaultAPIURL),
		APIKey:         getEnv("WEATHER_API_KEY", getEnv("OPENWEATHER_API_KEY", "")),
		IconURL:        getEnv("WEATHER_ICON_URL", defaultIconURL),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 5),
	}

	if config.APIKey == "" {
		return nil, fmt.Errorf("необходим API ключ (WEATHER_API_KEY или OPENWEATHER_API_KEY)")
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}
