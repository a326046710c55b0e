package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"weather-dashboard/models"
	"weather-dashboard/providers"
)

// ForecastSampleCount сколько трехчасовых точек запрашивается (~3 дня)
const ForecastSampleCount = 18

// Сообщения для пользователя
const (
	MsgEmptyQuery      = "Please enter the location."
	MsgWeatherNotFound = "Location not found. Please try again."
	MsgForecastFailed  = "Error fetching forecast data. Please try again."
)

// State состояние представления. Снимки отдаются копией.
type State struct {
	Query        string                  `json:"query"`
	Loading      bool                    `json:"loading"`
	Error        string                  `json:"error,omitempty"`
	Unit         models.Unit             `json:"unit"`
	Weather      *models.CurrentWeather  `json:"weather,omitempty"`
	Forecast     []models.ForecastSample `json:"forecast"`
	ShowWeather  bool                    `json:"show_weather"`
	ShowForecast bool                    `json:"show_forecast"`
}

// Dashboard единственный владелец State; все изменения идут через его методы.
//
// Запросы не отменяются и не дедуплицируются: если их несколько,
// состояние определяет тот ответ, что пришел последним.
type Dashboard struct {
	provider providers.Provider
	logger   *zap.Logger

	mu    sync.Mutex
	state State
}

func New(provider providers.Provider, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{
		provider: provider,
		logger:   logger,
		state:    State{Forecast: []models.ForecastSample{}},
	}
}

// SetQuery сохраняет введенную локацию, сеть не трогает
func (d *Dashboard) SetQuery(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Query = text
}

// ToggleUnit переключает единицу отображения температуры
func (d *Dashboard) ToggleUnit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Unit = d.state.Unit.Toggle()
}

// Snapshot возвращает копию текущего состояния
func (d *Dashboard) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.state
	if d.state.Weather != nil {
		w := *d.state.Weather
		s.Weather = &w
	}
	s.Forecast = append([]models.ForecastSample(nil), d.state.Forecast...)
	if s.Forecast == nil {
		s.Forecast = []models.ForecastSample{}
	}
	return s
}

// FetchCurrentWeather запускает запрос текущей погоды.
// Возвращаемый канал закрывается, когда ответ применен к состоянию.
func (d *Dashboard) FetchCurrentWeather(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	d.mu.Lock()
	location := d.state.Query
	if location == "" {
		d.state.Error = MsgEmptyQuery
		d.state.Loading = false
		d.mu.Unlock()
		close(done)
		return done
	}
	d.state.ShowWeather = true
	d.state.ShowForecast = false
	d.state.Loading = true
	d.state.Error = ""
	d.mu.Unlock()

	go func() {
		defer close(done)

		weather, err := d.provider.GetCurrentWeather(ctx, location)

		d.mu.Lock()
		defer d.mu.Unlock()

		if err != nil {
			d.logger.Error("ошибка получения текущей погоды",
				zap.String("location", location),
				zap.String("provider", d.provider.Name()),
				zap.Error(err),
			)
			// Прежние данные о погоде не очищаются
			d.state.Error = MsgWeatherNotFound
			d.state.Loading = false
			return
		}

		d.state.Weather = weather
		d.state.Loading = false
	}()

	return done
}

// FetchForecast запускает запрос прогноза и сворачивает его до одной точки в день.
// Возвращаемый канал закрывается, когда ответ применен к состоянию.
func (d *Dashboard) FetchForecast(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	d.mu.Lock()
	location := d.state.Query
	if location == "" {
		d.state.Error = MsgEmptyQuery
		d.state.ShowForecast = false
		d.mu.Unlock()
		close(done)
		return done
	}
	d.state.ShowWeather = false
	d.state.ShowForecast = true
	d.state.Loading = true
	d.state.Error = ""
	d.mu.Unlock()

	go func() {
		defer close(done)

		samples, err := d.provider.GetForecast(ctx, location, ForecastSampleCount)
		var daily []models.ForecastSample
		if err == nil {
			daily = DailyForecast(samples)
		}

		d.mu.Lock()
		defer d.mu.Unlock()

		if err != nil {
			d.logger.Error("ошибка получения прогноза",
				zap.String("location", location),
				zap.String("provider", d.provider.Name()),
				zap.Error(err),
			)
			d.state.Error = MsgForecastFailed
			d.state.Loading = false
			d.state.ShowForecast = false
			d.state.Forecast = []models.ForecastSample{}
			return
		}

		d.state.Forecast = daily
		d.state.Loading = false
	}()

	return done
}
