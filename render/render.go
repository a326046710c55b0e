package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"weather-dashboard/dashboard"
	"weather-dashboard/models"
)

const DefaultIconBaseURL = "http://openweathermap.org/img/w/"

//go:embed templates/dashboard.html
var templatesFS embed.FS

// IconURL адрес иконки: база + id + ".png". Иконка не загружается и не проверяется.
func IconURL(base, iconID string) string {
	if base == "" {
		base = DefaultIconBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + iconID + ".png"
}

// Renderer рисует состояние дашборда в HTML или текст
type Renderer struct {
	iconBase string
	page     *template.Template
}

// Page данные для HTML шаблона
type Page struct {
	State          dashboard.State
	RefreshSeconds int
}

func NewRenderer(iconBase string) (*Renderer, error) {
	r := &Renderer{iconBase: iconBase}

	funcs := template.FuncMap{
		"temp": func(u models.Unit, celsius float64) string {
			return u.Format(celsius)
		},
		"icon": func(id string) string {
			return IconURL(r.iconBase, id)
		},
		"notLast": func(i, n int) bool {
			return i < n-1
		},
	}

	page, err := template.New("dashboard.html").Funcs(funcs).ParseFS(templatesFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора шаблона: %w", err)
	}
	r.page = page

	return r, nil
}

// HTML рендерит страницу дашборда
func (r *Renderer) HTML(w io.Writer, page Page) error {
	if page.RefreshSeconds <= 0 {
		page.RefreshSeconds = 1
	}
	return r.page.Execute(w, page)
}

// Text выводит состояние в терминал по тем же правилам, что и HTML
func (r *Renderer) Text(w io.Writer, s dashboard.State) error {
	var b strings.Builder

	switch {
	case s.Loading:
		b.WriteString("Loading...\n")
	case s.Error != "":
		fmt.Fprintf(&b, "%s\n", s.Error)
	default:
		if s.Weather != nil && s.ShowWeather {
			writeWeather(&b, s.Weather, s.Unit, r.iconBase)
		}
		if s.ShowForecast {
			writeForecast(&b, s.Forecast, s.Unit, r.iconBase)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeWeather(b *strings.Builder, cw *models.CurrentWeather, unit models.Unit, iconBase string) {
	fmt.Fprintf(b, "%s, %s\n", cw.LocationName, cw.CountryCode)
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(b, "Current Temperature: %s\n", unit.Format(cw.TemperatureC))
	fmt.Fprintf(b, "Humidity: %d%%\n", cw.HumidityPercent)
	fmt.Fprintf(b, "Wind Speed: %v m/s\n", cw.WindSpeedMS)
	fmt.Fprintf(b, "Weather: %s\n", cw.Description)
	fmt.Fprintf(b, "Icon: %s\n", IconURL(iconBase, cw.IconID))
}

func writeForecast(b *strings.Builder, daily []models.ForecastSample, unit models.Unit, iconBase string) {
	b.WriteString("3 Days Weather Forecast\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")

	if len(daily) == 0 {
		b.WriteString("Loading...\n")
		return
	}

	for i, f := range daily {
		fmt.Fprintf(b, "Date: %s\n", f.TimestampText)
		fmt.Fprintf(b, "High: %s\n", unit.Format(f.TempMaxC))
		fmt.Fprintf(b, "Low: %s\n", unit.Format(f.TempMinC))
		fmt.Fprintf(b, "Weather: %s\n", f.Description)
		fmt.Fprintf(b, "Icon: %s\n", IconURL(iconBase, f.IconID))
		if i < len(daily)-1 {
			b.WriteString(strings.Repeat("-", 40) + "\n")
		}
	}
}
