package dashboard

import (
	"strings"

	"weather-dashboard/models"
)

// DailyForecast оставляет по одной точке прогноза на календарную дату:
// первую встреченную. Порядок входа сохраняется, результат не бывает nil.
func DailyForecast(samples []models.ForecastSample) []models.ForecastSample {
	daily := make([]models.ForecastSample, 0, 3)
	seen := make(map[string]struct{})

	for _, s := range samples {
		date := sampleDate(s.TimestampText)
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}
		daily = append(daily, s)
	}

	return daily
}

// sampleDate дата - часть строки до первого пробела
func sampleDate(timestamp string) string {
	date, _, _ := strings.Cut(timestamp, " ")
	return date
}
