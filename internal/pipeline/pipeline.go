// Package pipeline связывает загрузку, вычисление признаков, агрегаты и
// справочник квадрантов, кэшируя обогащенный набор по отпечатку источника.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/akozadaev/go_crime_analytical_system/internal/features"
	"github.com/akozadaev/go_crime_analytical_system/internal/georef"
	"github.com/akozadaev/go_crime_analytical_system/internal/loader"
	"github.com/akozadaev/go_crime_analytical_system/internal/metrics"
	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"github.com/akozadaev/go_crime_analytical_system/internal/prediction"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Dataset обогащенный набор, соответствующий одному содержимому источника.
type Dataset struct {
	Incidents []models.Incident      `json:"incidents"`
	Zones     []models.ZoneReference `json:"zones"`
	Stats     models.LoadStats       `json:"stats"`
}

// Options параметры конвейера.
type Options struct {
	Encoding     string
	HourSentinel int // 0 означает features.DefaultHourSentinel
	TopK         int // Размер списка зон наибольшего риска
}

// Pipeline конвейер одного источника. Безопасен для конкурентного использования.
type Pipeline struct {
	src   loader.Source
	cache Cache
	opts  Options
	log   *zap.Logger
	group singleflight.Group
}

// New создает конвейер. cache может быть nil, тогда используется MemoryCache.
func New(src loader.Source, cache Cache, opts Options, log *zap.Logger) *Pipeline {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.TopK <= 0 {
		opts.TopK = prediction.DefaultTopK
	}
	// 0 не используется источниками как sentinel, это реальный час
	if opts.HourSentinel == 0 {
		opts.HourSentinel = features.DefaultHourSentinel
	}
	return &Pipeline{src: src, cache: cache, opts: opts, log: log}
}

// Dataset возвращает обогащенный набор для текущего содержимого источника.
// Одновременные запросы с одинаковым отпечатком вычисляют набор один раз.
func (p *Pipeline) Dataset(ctx context.Context) (*Dataset, error) {
	snap, err := p.src.Snapshot(ctx)
	if err != nil {
		p.log.Error("incident source unavailable", zap.String("source", p.src.Name()), zap.Error(err))
		return nil, err
	}

	if ds, ok := p.lookup(ctx, snap.Fingerprint); ok {
		return ds, nil
	}

	v, err, shared := p.group.Do(snap.Fingerprint, func() (interface{}, error) {
		if ds, ok := p.lookup(ctx, snap.Fingerprint); ok {
			return ds, nil
		}
		ds, err := p.build(snap)
		if err != nil {
			return nil, err
		}
		if err := p.cache.Set(ctx, snap.Fingerprint, ds); err != nil {
			p.log.Warn("failed to cache dataset", zap.String("fingerprint", snap.Fingerprint), zap.Error(err))
		}
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		p.log.Debug("dataset computation shared", zap.String("fingerprint", snap.Fingerprint))
	}
	return v.(*Dataset), nil
}

// Incidents записи набора после применения фильтра.
func (p *Pipeline) Incidents(ctx context.Context, f Filter) ([]models.Incident, error) {
	ds, err := p.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(ds.Incidents), nil
}

// Overlay импортирует загруженный прогноз и строит карту риска по справочнику
// квадрантов всего набора.
func (p *Pipeline) Overlay(ctx context.Context, r io.Reader, schema prediction.Schema) (models.OverlayResponse, error) {
	ds, err := p.Dataset(ctx)
	if err != nil {
		return models.OverlayResponse{}, err
	}

	res, err := prediction.Import(r, schema)
	if err != nil {
		metrics.Imports.WithLabelValues(importOutcome(err)).Inc()
		return models.OverlayResponse{}, err
	}
	metrics.Imports.WithLabelValues("ok").Inc()

	return p.overlay(res, ds), nil
}

// Forecast строит карту риска по предрасчитанному прогнозу из каталога.
// Отсутствующий файл возвращает ответ без данных, а не ошибку.
func (p *Pipeline) Forecast(ctx context.Context, entry models.ForecastEntry) (models.OverlayResponse, error) {
	ds, err := p.Dataset(ctx)
	if err != nil {
		return models.OverlayResponse{}, err
	}

	entry.Available = true
	res, err := prediction.LoadForecast(entry)
	if errors.Is(err, models.ErrNotFound) {
		entry.Available = false
		return models.OverlayResponse{
			Forecast: &entry,
			Overlay:  []models.RiskOverlay{},
			Top:      []models.RiskOverlay{},
			Insight:  models.RiskInsight{TopZones: []string{}},
			Diagnostics: models.Diagnostics{
				UnmatchedZones: []string{},
			},
			Message: "no prediction data available",
		}, nil
	}
	if err != nil {
		return models.OverlayResponse{}, fmt.Errorf("forecast %s: %w", entry.Key, err)
	}

	out := p.overlay(res, ds)
	out.Forecast = &entry
	out.Metrics = prediction.MetricsFor(entry)
	return out, nil
}

func (p *Pipeline) overlay(res *prediction.Result, ds *Dataset) models.OverlayResponse {
	out := prediction.BuildOverlay(res, ds.Zones, p.opts.TopK)
	if out.Diagnostics.Unmatched > 0 {
		p.log.Info("predictions without matching zone",
			zap.Int("unmatched", out.Diagnostics.Unmatched),
			zap.Strings("zones", out.Diagnostics.UnmatchedZones),
		)
	}
	return out
}

func (p *Pipeline) lookup(ctx context.Context, fingerprint string) (*Dataset, bool) {
	ds, ok, err := p.cache.Get(ctx, fingerprint)
	if err != nil {
		p.log.Warn("dataset cache lookup failed", zap.String("fingerprint", fingerprint), zap.Error(err))
	}
	return ds, ok
}

func (p *Pipeline) build(snap *loader.Snapshot) (*Dataset, error) {
	res, err := loader.Parse(snap, loader.Options{Encoding: p.opts.Encoding, Logger: p.log})
	if err != nil {
		return nil, err
	}

	metrics.RowsLoaded.Add(float64(res.Stats.Retained))
	for reason, n := range res.Stats.Rejected {
		metrics.RowsRejected.WithLabelValues(reason).Add(float64(n))
	}

	incidents := features.Enrich(res.Records, features.Options{HourSentinel: p.opts.HourSentinel})
	return &Dataset{
		Incidents: incidents,
		Zones:     georef.Build(incidents),
		Stats:     res.Stats,
	}, nil
}

func importOutcome(err error) string {
	switch {
	case errors.Is(err, models.ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, models.ErrImportFailed):
		return "import_failed"
	default:
		return "error"
	}
}
