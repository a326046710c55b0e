package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"weather-dashboard/config"
	"weather-dashboard/dashboard"
	"weather-dashboard/logging"
	"weather-dashboard/providers"
	"weather-dashboard/render"
	"weather-dashboard/server"
)

var (
	cfg      *config.Config
	logger   *zap.Logger
	provider *providers.OpenWeatherProvider
	renderer *render.Renderer
)

func main() {
	var rootCmd = &cobra.Command{
		Use:          "weather",
		Short:        "Погодный дашборд",
		Long:         "Текущая погода и прогноз на 3 дня по названию города или индексу",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}

	// Команда для запуска сервера
	var serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Запуск HTTP дашборда",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}

	// Команды для запроса погоды через CLI
	var currentCmd = &cobra.Command{
		Use:   "current [локация]",
		Short: "Текущая погода для города или индекса",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCLI(cmd, args[0], (*dashboard.Dashboard).FetchCurrentWeather)
		},
	}

	var forecastCmd = &cobra.Command{
		Use:   "forecast [локация]",
		Short: "Прогноз на 3 дня для города или индекса",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCLI(cmd, args[0], (*dashboard.Dashboard).FetchForecast)
		},
	}

	for _, c := range []*cobra.Command{currentCmd, forecastCmd} {
		c.Flags().BoolP("fahrenheit", "f", false, "Показывать температуру в Фаренгейтах")
		c.Flags().StringP("output", "o", "text", "Формат вывода (text, json)")
	}

	// Команда для проверки конфигурации
	var configCmd = &cobra.Command{
		Use:   "config",
		Short: "Показать текущую конфигурацию",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig()
		},
	}

	rootCmd.AddCommand(serverCmd, currentCmd, forecastCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// setup загружает конфигурацию и собирает зависимости
func setup() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	logger, err = logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	provider = providers.NewOpenWeatherProvider(cfg.APIURL, cfg.APIKey,
		providers.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	renderer, err = render.NewRenderer(cfg.IconURL)
	if err != nil {
		return err
	}

	logger.Debug("конфигурация загружена",
		zap.String("api_url", cfg.APIURL),
		zap.Float64("rate_limit_rps", cfg.RateLimitRPS),
	)
	return nil
}

// startServer запускает HTTP дашборд до получения сигнала
func startServer(ctx context.Context) error {
	srv := server.New(ctx, provider, renderer, logger)
	return srv.Run(ctx, cfg.ServerPort)
}

// runCLI выполняет один запрос через Dashboard и печатает результат
func runCLI(cmd *cobra.Command, location string, fetch func(*dashboard.Dashboard, context.Context) <-chan struct{}) error {
	fahrenheit, _ := cmd.Flags().GetBool("fahrenheit")
	output, _ := cmd.Flags().GetString("output")

	d := dashboard.New(provider, logger)
	if fahrenheit {
		d.ToggleUnit()
	}
	d.SetQuery(location)

	ctx := cmd.Context()
	select {
	case <-fetch(d, ctx):
	case <-ctx.Done():
		return ctx.Err()
	}

	state := d.Snapshot()
	if state.Error != "" {
		return errors.New(state.Error)
	}

	out := cmd.OutOrStdout()
	if output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	return renderer.Text(out, state)
}

// showConfig показывает конфигурацию без секретов
func showConfig() {
	fmt.Println("⚙️  Конфигурация дашборда:")
	fmt.Println(strings.Repeat("-", 30))
	fmt.Printf("API:          %s\n", cfg.APIURL)
	fmt.Printf("API ключ:     %s\n", maskKey(cfg.APIKey))
	fmt.Printf("Иконки:       %s\n", cfg.IconURL)
	fmt.Printf("Порт:         %s\n", cfg.ServerPort)
	fmt.Printf("Логирование:  %s\n", cfg.LogLevel)
	if cfg.RateLimitRPS > 0 {
		fmt.Printf("Лимит:        %.2f запр/с (burst %d)\n", cfg.RateLimitRPS, cfg.RateLimitBurst)
	} else {
		fmt.Println("Лимит:        отключен")
	}

	if provider.IsAvailable() {
		fmt.Printf("✓ %s\n", provider.Name())
	} else {
		fmt.Printf("✗ %s (не настроен)\n", provider.Name())
	}
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
