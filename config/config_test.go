package config

import (
	"os"
	"path/filepath"
	"testing"
)

// inEmptyDir переходит во временный каталог, чтобы godotenv не подхватил чужой .env
func inEmptyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"WEATHER_API_URL", "WEATHER_API_KEY", "OPENWEATHER_API_KEY", "WEATHER_ICON_URL",
		"SERVER_PORT", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	inEmptyDir(t)
	clearEnv(t)
	t.Setenv("WEATHER_API_KEY", "abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIURL != defaultAPIURL {
		t.Errorf("expected default API URL, got %s", cfg.APIURL)
	}
	if cfg.IconURL != defaultIconURL {
		t.Errorf("expected default icon URL, got %s", cfg.IconURL)
	}
	if cfg.ServerPort != "8080" || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.RateLimitRPS != 0 || cfg.RateLimitBurst != 5 {
		t.Errorf("unexpected rate limit defaults: %+v", cfg)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	inEmptyDir(t)
	clearEnv(t)

	if _, err := Load(); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestLoadFallbackKeyAndOverrides(t *testing.T) {
	inEmptyDir(t)
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "legacy")
	t.Setenv("WEATHER_API_URL", "http://localhost:9000/data/2.5")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "legacy" {
		t.Errorf("expected fallback key, got %s", cfg.APIKey)
	}
	if cfg.APIURL != "http://localhost:9000/data/2.5" {
		t.Errorf("unexpected API URL %s", cfg.APIURL)
	}
	if cfg.RateLimitRPS != 0.5 {
		t.Errorf("expected rps 0.5, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 5 {
		t.Errorf("expected invalid burst to fall back to 5, got %d", cfg.RateLimitBurst)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := inEmptyDir(t)
	clearEnv(t)
	os.Unsetenv("WEATHER_API_KEY")
	os.Unsetenv("SERVER_PORT")

	content := "WEATHER_API_KEY=from-dotenv\nSERVER_PORT=9090\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "from-dotenv" || cfg.ServerPort != "9090" {
		t.Errorf("expected values from .env, got %+v", cfg)
	}
}
