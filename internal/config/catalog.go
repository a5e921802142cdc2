package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"gopkg.in/yaml.v3"
)

// Catalog описывает предрасчитанные прогнозы по категориям.
type Catalog struct {
	Forecasts []models.ForecastEntry `yaml:"forecasts"`
}

// LoadCatalog читает YAML каталог прогнозов.
// Относительные пути файлов разрешаются относительно каталога самого YAML.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read forecast catalog %s: %w", path, err)
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse forecast catalog %s: %w", path, err)
	}

	base := filepath.Dir(path)
	seen := make(map[string]bool, len(cat.Forecasts))
	for i := range cat.Forecasts {
		f := &cat.Forecasts[i]
		if f.Key == "" {
			return nil, fmt.Errorf("forecast #%d: key is required", i+1)
		}
		if seen[f.Key] {
			return nil, fmt.Errorf("forecast %q: duplicate key", f.Key)
		}
		seen[f.Key] = true
		f.ApplyDefaults()
		f.ForecastFile = resolve(base, f.ForecastFile)
		f.MetricsFile = resolve(base, f.MetricsFile)
	}

	return &cat, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// GetForecastEntries возвращает записи каталога.
func (c *Catalog) GetForecastEntries(_ context.Context) ([]models.ForecastEntry, error) {
	out := make([]models.ForecastEntry, len(c.Forecasts))
	copy(out, c.Forecasts)
	return out, nil
}
