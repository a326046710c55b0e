package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"weather-dashboard/models"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

type OpenWeatherProvider struct {
	apiKey  string
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// Option настраивает провайдера
type Option func(*OpenWeatherProvider)

// WithHTTPClient подменяет HTTP клиент
func WithHTTPClient(client *http.Client) Option {
	return func(p *OpenWeatherProvider) {
		p.client = client
	}
}

// WithRateLimit ограничивает частоту исходящих запросов.
// rps <= 0 отключает ограничение.
func WithRateLimit(rps float64, burst int) Option {
	return func(p *OpenWeatherProvider) {
		if rps <= 0 {
			p.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewOpenWeatherProvider создает клиента OpenWeatherMap-совместимого API.
// Таймаут не задается: время жизни запроса ограничено контекстом и транспортом.
func NewOpenWeatherProvider(baseURL, apiKey string, opts ...Option) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	p := &OpenWeatherProvider{
		apiKey:  apiKey,
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return "OpenWeatherMap"
}

func (p *OpenWeatherProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// owmCondition элемент массива weather
type owmCondition struct {
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// owmError тело ответа с ошибкой; cod бывает и числом, и строкой
type owmError struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}

// Поля-указатели нужны, чтобы отличить отсутствующее поле от нуля.
type owmCurrentResponse struct {
	Name *string `json:"name"`
	Sys  *struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *int     `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Weather []owmCondition `json:"weather"`
}

type owmForecastResponse struct {
	List *[]struct {
		DtTxt string `json:"dt_txt"`
		Main  *struct {
			TempMax *float64 `json:"temp_max"`
			TempMin *float64 `json:"temp_min"`
		} `json:"main"`
		Weather []owmCondition `json:"weather"`
	} `json:"list"`
}

// GetCurrentWeather запрашивает текущую погоду
func (p *OpenWeatherProvider) GetCurrentWeather(ctx context.Context, location string) (*models.CurrentWeather, error) {
	query := url.Values{}
	query.Set("q", location)
	query.Set("units", "metric")
	query.Set("appid", p.apiKey)

	var result owmCurrentResponse
	if err := p.get(ctx, "/weather", query, &result); err != nil {
		return nil, err
	}

	switch {
	case result.Name == nil:
		return nil, fmt.Errorf("%w: нет поля name", ErrBadResponse)
	case result.Main == nil || result.Main.Temp == nil || result.Main.Humidity == nil:
		return nil, fmt.Errorf("%w: нет данных main", ErrBadResponse)
	case result.Wind == nil || result.Wind.Speed == nil:
		return nil, fmt.Errorf("%w: нет данных wind", ErrBadResponse)
	case len(result.Weather) == 0:
		return nil, fmt.Errorf("%w: нет данных о погоде", ErrBadResponse)
	}

	weather := &models.CurrentWeather{
		LocationName:    *result.Name,
		TemperatureC:    *result.Main.Temp,
		HumidityPercent: *result.Main.Humidity,
		WindSpeedMS:     *result.Wind.Speed,
		IconID:          result.Weather[0].Icon,
		Description:     result.Weather[0].Description,
	}
	if result.Sys != nil {
		weather.CountryCode = result.Sys.Country
	}

	return weather, nil
}

// GetForecast запрашивает count трехчасовых точек прогноза
func (p *OpenWeatherProvider) GetForecast(ctx context.Context, location string, count int) ([]models.ForecastSample, error) {
	query := url.Values{}
	query.Set("q", location)
	query.Set("units", "metric")
	if count > 0 {
		query.Set("cnt", fmt.Sprint(count))
	}
	query.Set("appid", p.apiKey)

	var result owmForecastResponse
	if err := p.get(ctx, "/forecast", query, &result); err != nil {
		return nil, err
	}

	if result.List == nil {
		return nil, fmt.Errorf("%w: нет поля list", ErrBadResponse)
	}

	samples := make([]models.ForecastSample, 0, len(*result.List))
	for i, item := range *result.List {
		switch {
		case item.DtTxt == "":
			return nil, fmt.Errorf("%w: list[%d] без dt_txt", ErrBadResponse, i)
		case item.Main == nil || item.Main.TempMax == nil || item.Main.TempMin == nil:
			return nil, fmt.Errorf("%w: list[%d] без main", ErrBadResponse, i)
		case len(item.Weather) == 0:
			return nil, fmt.Errorf("%w: list[%d] без weather", ErrBadResponse, i)
		}

		samples = append(samples, models.ForecastSample{
			TimestampText: item.DtTxt,
			TempMaxC:      *item.Main.TempMax,
			TempMinC:      *item.Main.TempMin,
			IconID:        item.Weather[0].Icon,
			Description:   item.Weather[0].Description,
		})
	}

	return samples, nil
}

// get выполняет GET запрос и декодирует JSON ответ в out
func (p *OpenWeatherProvider) get(ctx context.Context, path string, query url.Values, out any) error {
	if !p.IsAvailable() {
		return fmt.Errorf("провайдер %s не настроен", p.Name())
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("ожидание лимита запросов прервано: %w", err)
		}
	}

	reqURL := fmt.Sprintf("%s%s?%s", p.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка HTTP запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr owmError
		msg := fmt.Sprintf("статус %d", resp.StatusCode)
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			msg = fmt.Sprintf("%s: %s", msg, apiErr.Message)
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w (%s)", ErrNotFound, msg)
		case http.StatusUnauthorized:
			return fmt.Errorf("%w (%s)", ErrUnauthorized, msg)
		}
		return fmt.Errorf("ошибка API: %s", msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: ошибка парсинга JSON: %v", ErrBadResponse, err)
	}

	return nil
}
