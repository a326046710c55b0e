package dashboard

import (
	"fmt"
	"testing"

	"weather-dashboard/models"
)

// threeHourly строит count точек с шагом 3 часа, начиная с полуночи 1 мая
func threeHourly(count int) []models.ForecastSample {
	samples := make([]models.ForecastSample, 0, count)
	for i := 0; i < count; i++ {
		day := 1 + (i*3)/24
		hour := (i * 3) % 24
		samples = append(samples, models.ForecastSample{
			TimestampText: fmt.Sprintf("2024-05-%02d %02d:00:00", day, hour),
			TempMaxC:      float64(i),
			TempMinC:      float64(i - 5),
			IconID:        "01d",
			Description:   "clear sky",
		})
	}
	return samples
}

func TestDailyForecastEighteenSamples(t *testing.T) {
	samples := threeHourly(18) // 8, 8, 2

	got := DailyForecast(samples)
	if len(got) != 3 {
		t.Fatalf("expected 3 daily entries, got %d", len(got))
	}

	want := []string{"2024-05-01 00:00:00", "2024-05-02 00:00:00", "2024-05-03 00:00:00"}
	for i, w := range want {
		if got[i].TimestampText != w {
			t.Errorf("entry %d: expected %s, got %s", i, w, got[i].TimestampText)
		}
	}
	if got[1] != samples[8] || got[2] != samples[16] {
		t.Errorf("expected first sample of each date to be kept, got %+v", got)
	}
}

func TestDailyForecastKeepsEarliestPerDate(t *testing.T) {
	// Окно начинается не с полуночи: первая точка дня может быть вечерней
	samples := []models.ForecastSample{
		{TimestampText: "2024-05-01 18:00:00", TempMaxC: 1},
		{TimestampText: "2024-05-01 21:00:00", TempMaxC: 2},
		{TimestampText: "2024-05-02 00:00:00", TempMaxC: 3},
		{TimestampText: "2024-05-02 12:00:00", TempMaxC: 4},
	}

	got := DailyForecast(samples)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].TempMaxC != 1 || got[1].TempMaxC != 3 {
		t.Errorf("expected earliest samples of each date, got %+v", got)
	}
}

func TestDailyForecastProperties(t *testing.T) {
	inputs := [][]models.ForecastSample{
		threeHourly(1),
		threeHourly(7),
		threeHourly(18),
		threeHourly(40),
	}

	for _, in := range inputs {
		out := DailyForecast(in)

		seen := map[string]bool{}
		for _, o := range out {
			date := sampleDate(o.TimestampText)
			if seen[date] {
				t.Errorf("duplicate date %s in output", date)
			}
			seen[date] = true

			for _, s := range in {
				if sampleDate(s.TimestampText) == date && s.TimestampText < o.TimestampText {
					t.Errorf("entry %s is not the earliest for %s", o.TimestampText, date)
				}
			}
		}

		again := DailyForecast(out)
		if len(again) != len(out) {
			t.Fatalf("expected idempotent result, got %d then %d entries", len(out), len(again))
		}
		for i := range out {
			if again[i] != out[i] {
				t.Errorf("entry %d changed on second pass", i)
			}
		}
	}
}

func TestDailyForecastEmpty(t *testing.T) {
	for _, in := range [][]models.ForecastSample{nil, {}} {
		got := DailyForecast(in)
		if got == nil {
			t.Fatal("expected non-nil empty slice")
		}
		if len(got) != 0 {
			t.Errorf("expected empty result, got %d", len(got))
		}
	}
}

func TestDailyForecastTimestampWithoutTime(t *testing.T) {
	samples := []models.ForecastSample{
		{TimestampText: "2024-05-01"},
		{TimestampText: "2024-05-01 03:00:00"},
	}
	if got := DailyForecast(samples); len(got) != 1 {
		t.Errorf("expected samples to share a date, got %d entries", len(got))
	}
}
