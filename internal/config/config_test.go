package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"github.com/akozadaev/go_crime_analytical_system/internal/prediction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "HOUR_SENTINEL", "TOP_N", "REDIS_URL", "POSTGRES_ENABLED", "SOURCE_READ_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 99, cfg.HourSentinel)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, 10*time.Second, cfg.SourceReadTimeout)
	assert.False(t, cfg.PostgresEnabled)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBytes)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HOUR_SENTINEL", "-1")
	t.Setenv("POSTGRES_ENABLED", "true")
	t.Setenv("SOURCE_READ_TIMEOUT", "250ms")
	t.Setenv("UPLOAD_RATE_PER_SEC", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, -1, cfg.HourSentinel)
	assert.True(t, cfg.PostgresEnabled)
	assert.Equal(t, 250*time.Millisecond, cfg.SourceReadTimeout)
	assert.Equal(t, 0.5, cfg.UploadRatePerSec)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"HOUR_SENTINEL", "ninety"},
		{"POSTGRES_ENABLED", "maybe"},
		{"SOURCE_READ_TIMEOUT", "10"},
		{"UPLOAD_RATE_PER_SEC", "fast"},
		{"TOP_N", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u", PostgresPassword: "p", PostgresDB: "crimes"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=crimes sslmode=disable", cfg.PostgresDSN())
}

func find(cat *Catalog, key string) (models.ForecastEntry, bool) {
	for _, f := range cat.Forecasts {
		if f.Key == key {
			return f, true
		}
	}
	return models.ForecastEntry{}, false
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forecasts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeCatalog(t, `
forecasts:
  - key: negocio
    category: ROBO A NEGOCIO
    period: enero
    forecast_file: exportados/negocio.csv
    metrics_file: /abs/metricas.json
  - key: casa
    category: ROBO A CASA HABITACION
    zone_column: ZONA
    predicted_columns: [PREDICCION_ROBOS]
    metrics_key: CASA
`)

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, cat.Forecasts, 2)

	negocio, ok := find(cat, "negocio")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "exportados/negocio.csv"), negocio.ForecastFile)
	assert.Equal(t, "/abs/metricas.json", negocio.MetricsFile)
	assert.Equal(t, "CUADRANTE", negocio.ZoneColumn)
	assert.Equal(t, []string{"PREDICCION_ROBOS_MES_N", "PREDICCION_ROBOS"}, negocio.PredictedColumns)
	assert.Equal(t, "negocio", negocio.MetricsKey)

	casa, ok := find(cat, "casa")
	require.True(t, ok)
	assert.Equal(t, "ZONA", casa.ZoneColumn)
	assert.Equal(t, []string{"PREDICCION_ROBOS"}, casa.PredictedColumns)
	assert.Equal(t, "CASA", casa.MetricsKey)
	assert.Empty(t, casa.ForecastFile)

	_, ok = find(cat, "moto")
	assert.False(t, ok)

	entries, err := cat.GetForecastEntries(context.Background())
	require.NoError(t, err)
	entries[0].Key = "changed"
	assert.Equal(t, "negocio", cat.Forecasts[0].Key)
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadCatalog(writeCatalog(t, "forecasts: [\n"))
	assert.Error(t, err)

	_, err = LoadCatalog(writeCatalog(t, "forecasts:\n  - name: sin clave\n"))
	assert.ErrorContains(t, err, "key is required")

	_, err = LoadCatalog(writeCatalog(t, "forecasts:\n  - key: a\n  - key: a\n"))
	assert.ErrorContains(t, err, "duplicate key")
}

// Каталог из репозитория на раскладке файлов исходной выгрузки моделей.
func TestShippedCatalogMatchesExportedFiles(t *testing.T) {
	shipped, err := os.ReadFile(filepath.Join("..", "..", "configs", "forecasts.yaml"))
	require.NoError(t, err)

	root := t.TempDir()
	path := filepath.Join(root, "configs", "forecasts.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, shipped, 0o600))

	exported := map[string]string{
		"Robos a negocios/top_10_prediccion_robos_negocios_enero.csv":             "CUADRANTE,LATITUD,LONGITUD,PREDICCION_ROBOS_MES_N\n12,-12.1,-77.0,8.4\n7,-12.2,-77.1,6.1\n",
		"Robos de vehiculos/top_10_prediccion_robos_vehiculos_enero.csv":           "CUADRANTE,LATITUD,LONGITUD,PREDICCION_ROBOS_MES_N\n3,-12.1,-77.0,5.0\n",
		"Robos a casa habitacion/top_10_prediccion_robos_casa_habitacion_enero.csv": "CUADRANTE,LATITUD,LONGITUD,PREDICCION_ROBOS_MES_N\n21,-12.3,-77.2,3.2\n9,-12.4,-77.3,2.9\n",
	}
	for name, content := range exported {
		file := filepath.Join(root, "exportados", name)
		require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
		require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "metricas_modelos.json"), []byte(`{
		"negocio": {"enero": {"r2": 0.81, "mae": 1.7}},
		"vehiculo": {"enero": {"r2": 0.74, "mae": 1.2}},
		"casa": {"enero": {"r2": 0.69, "mae": 0.9}}
	}`), 0o600))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, cat.Forecasts, 3)

	for _, entry := range prediction.Availability(cat.Forecasts) {
		t.Run(entry.Key, func(t *testing.T) {
			assert.True(t, entry.Available, entry.ForecastFile)
			assert.Equal(t, entry.Key, entry.MetricsKey)

			res, err := prediction.LoadForecast(entry)
			require.NoError(t, err)
			assert.NotEmpty(t, res.Records)
			assert.Equal(t, "PREDICCION_ROBOS_MES_N", res.CountColumn)

			m := prediction.MetricsFor(entry)
			require.NotNil(t, m)
			assert.Greater(t, m.R2, 0.0)
		})
	}
}

func TestForecastEntryDefaults(t *testing.T) {
	e := models.ForecastEntry{Key: "casa", Category: "ROBO A CASA HABITACION"}
	e.ApplyDefaults()
	assert.Equal(t, "CUADRANTE", e.ZoneColumn)
	assert.Equal(t, []string{"PREDICCION_ROBOS_MES_N", "PREDICCION_ROBOS"}, e.PredictedColumns)
	assert.Equal(t, "casa", e.MetricsKey)

	e = models.ForecastEntry{Key: "casa", ZoneColumn: "ZONA", PredictedColumns: []string{"PREDICCION_ROBOS"}, MetricsKey: "CASA"}
	e.ApplyDefaults()
	assert.Equal(t, "ZONA", e.ZoneColumn)
	assert.Equal(t, []string{"PREDICCION_ROBOS"}, e.PredictedColumns)
	assert.Equal(t, "CASA", e.MetricsKey)
}
