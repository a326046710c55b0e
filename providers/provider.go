package providers

import (
	"context"
	"errors"

	"weather-dashboard/models"
)

// Ошибки провайдера. Дашборд сводит их к одному сообщению для пользователя,
// различие нужно только логам и JSON API.
var (
	ErrNotFound     = errors.New("локация не найдена")
	ErrUnauthorized = errors.New("неверный API ключ")
	ErrBadResponse  = errors.New("некорректный ответ API")
)

// Provider интерфейс погодного API
type Provider interface {
	Name() string
	GetCurrentWeather(ctx context.Context, location string) (*models.CurrentWeather, error)
	GetForecast(ctx context.Context, location string, count int) ([]models.ForecastSample, error)
	IsAvailable() bool
}
