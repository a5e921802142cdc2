package prediction

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/akozadaev/go_crime_analytical_system/internal/models"
)

// MetricsSidecar показатели моделей: категория -> период -> метрики.
type MetricsSidecar map[string]map[string]models.ModelMetrics

// Availability отмечает, какие предрасчитанные прогнозы есть на диске.
func Availability(entries []models.ForecastEntry) []models.ForecastEntry {
	out := make([]models.ForecastEntry, len(entries))
	for i, e := range entries {
		e.Available = fileExists(e.ForecastFile)
		out[i] = e
	}
	return out
}

// LoadForecast импортирует файл прогноза из каталога. Если файла нет,
// возвращается ошибка, совместимая с models.ErrNotFound.
func LoadForecast(entry models.ForecastEntry) (*Result, error) {
	f, err := os.Open(entry.ForecastFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("forecast %s: %w", entry.Key, models.ErrNotFound)
		}
		return nil, &models.ImportError{Cause: err}
	}
	defer f.Close()

	return Import(f, Schema{ZoneColumn: entry.ZoneColumn, CountColumns: entry.PredictedColumns})
}

// LoadMetrics читает JSON с метриками моделей.
func LoadMetrics(path string) (MetricsSidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("metrics %s: %w", path, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read metrics %s: %w", path, err)
	}

	var m MetricsSidecar
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode metrics %s: %w", path, err)
	}
	return m, nil
}

// MetricsFor метрики прогноза или nil, если файла или записи нет.
func MetricsFor(entry models.ForecastEntry) *models.ModelMetrics {
	if entry.MetricsFile == "" {
		return nil
	}
	sidecar, err := LoadMetrics(entry.MetricsFile)
	if err != nil {
		return nil
	}
	m, ok := sidecar[entry.MetricsKey][entry.Period]
	if !ok {
		return nil
	}
	return &m
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
