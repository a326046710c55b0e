package models

import (
	"fmt"
	"strconv"
)

// CurrentWeather текущие условия для локации, как их вернул API
type CurrentWeather struct {
	LocationName    string  `json:"location_name"`
	CountryCode     string  `json:"country_code"`
	TemperatureC    float64 `json:"temperature_c"`
	HumidityPercent int     `json:"humidity_percent"`
	WindSpeedMS     float64 `json:"wind_speed_ms"` // м/с
	IconID          string  `json:"icon_id"`
	Description     string  `json:"description"`
}

// ForecastSample одна точка прогноза (окно 3 часа)
type ForecastSample struct {
	TimestampText string  `json:"timestamp_text"` // "YYYY-MM-DD HH:MM:SS"
	TempMaxC      float64 `json:"temp_max_c"`
	TempMinC      float64 `json:"temp_min_c"`
	IconID        string  `json:"icon_id"`
	Description   string  `json:"description"`
}

// Unit единица отображения температуры
type Unit int

const (
	Celsius Unit = iota
	Fahrenheit
)

// Toggle возвращает противоположную единицу
func (u Unit) Toggle() Unit {
	if u == Celsius {
		return Fahrenheit
	}
	return Celsius
}

func (u Unit) String() string {
	if u == Fahrenheit {
		return "Fahrenheit"
	}
	return "Celsius"
}

// Symbol возвращает суффикс для вывода температуры
func (u Unit) Symbol() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

// Convert переводит значение в градусах Цельсия в текущую единицу.
// Хранимые значения никогда не конвертируются, только вывод.
func (u Unit) Convert(celsius float64) float64 {
	if u == Fahrenheit {
		return celsius*9/5 + 32
	}
	return celsius
}

// Format форматирует температуру без явного округления
func (u Unit) Format(celsius float64) string {
	return strconv.FormatFloat(u.Convert(celsius), 'f', -1, 64) + u.Symbol()
}

// MarshalText позволяет отдавать единицу в JSON строкой
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *Unit) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Celsius":
		*u = Celsius
	case "Fahrenheit":
		*u = Fahrenheit
	default:
		return fmt.Errorf("неизвестная единица %q", text)
	}
	return nil
}

// ErrorResponse структура для ошибок
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
