// @title           Crime Analytics API
// @version         1.0
// @description     REST API аналитики краж. Загружает исторический набор происшествий, строит агрегаты для панели и накладывает прогнозы по квадрантам на карту риска.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  akozadaev@inbox.ru
// @contact.url    https://github.com/akozadaev/go_crime_analytical_system

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @schemes   http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/akozadaev/go_crime_analytical_system/docs" // swagger docs
	"github.com/akozadaev/go_crime_analytical_system/internal/config"
	"github.com/akozadaev/go_crime_analytical_system/internal/handlers"
	"github.com/akozadaev/go_crime_analytical_system/internal/loader"
	"github.com/akozadaev/go_crime_analytical_system/internal/logger"
	"github.com/akozadaev/go_crime_analytical_system/internal/metrics"
	"github.com/akozadaev/go_crime_analytical_system/internal/pipeline"
	"github.com/akozadaev/go_crime_analytical_system/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	metrics.RegisterDefault()

	// Кэш наборов: память процесса, затем Redis, если задан
	cache := pipeline.Chain{pipeline.NewMemoryCache()}
	if cfg.RedisURL != "" {
		rc, err := pipeline.NewRedisCache(cfg.RedisURL, "")
		if err != nil {
			log.Fatal("Error creating Redis cache", zap.Error(err))
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn("Redis is unreachable, dataset cache stays in memory", zap.Error(err))
		}
		cancel()
		defer rc.Close()
		cache = append(cache, rc)
	}

	src := loader.NewFileSource(cfg.DataFile, cfg.SourceReadTimeout)
	p := pipeline.New(src, cache, pipeline.Options{
		Encoding:     cfg.DataEncoding,
		HourSentinel: cfg.HourSentinel,
	}, log)

	// Первая загрузка прогревает кэш; отсутствие файла не мешает старту
	warmCtx, cancel := context.WithTimeout(context.Background(), 2*cfg.SourceReadTimeout)
	if ds, err := p.Dataset(warmCtx); err != nil {
		log.Warn("Dataset is not available yet", zap.String("file", cfg.DataFile), zap.Error(err))
	} else {
		log.Info("Dataset loaded",
			zap.Int("retained", ds.Stats.Retained),
			zap.Int("total", ds.Stats.Total),
			zap.Int("zones", len(ds.Zones)),
		)
	}
	cancel()

	// Каталог прогнозов: PostgreSQL, если включен, иначе YAML
	var catalog handlers.ForecastCatalog
	var dictionary handlers.Dictionary
	if cfg.PostgresEnabled {
		pgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pgStorage, err := storage.NewPostgresStorage(pgCtx, cfg.PostgresDSN())
		cancel()
		if err != nil {
			log.Fatal("Error creating PostgreSQL client", zap.Error(err))
		}
		defer pgStorage.Close()
		log.Info("Connected to PostgreSQL")
		catalog, dictionary = pgStorage, pgStorage
	} else {
		yamlCatalog, err := config.LoadCatalog(cfg.ForecastCatalog)
		if err != nil {
			log.Warn("Forecast catalog is not loaded", zap.Error(err))
		} else {
			catalog = yamlCatalog
		}
	}

	var search handlers.IncidentSearcher
	if cfg.ElasticsearchURL != "" {
		if es, err := newSearchStorage(cfg, log); err != nil {
			log.Warn("Search index is disabled", zap.Error(err))
		} else {
			search = es
		}
	}

	h := handlers.NewHandlers(p, catalog, search, dictionary, handlers.Options{
		TopN:           cfg.TopN,
		UploadMaxBytes: cfg.UploadMaxBytes,
		UploadRate:     cfg.UploadRatePerSec,
		UploadBurst:    cfg.UploadBurst,
	}, log)

	// Настройка роутера
	router := mux.NewRouter()
	h.Register(router)
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("http://localhost:"+cfg.AppPort+"/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	// Настройка CORS
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	router.Use(logger.Middleware(log))
	router.Use(metrics.Middleware)

	// Настройка сервера
	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Server starting", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Ожидание сигнала для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited")
}

// newSearchStorage подключает индекс происшествий и создает его при необходимости.
func newSearchStorage(cfg *config.Config, log *zap.Logger) (*storage.ElasticsearchStorage, error) {
	// Используем прямые HTTP запросы для совместимости с OpenSearch
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:         []string{cfg.ElasticsearchURL},
		DisableMetaHeader: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Elasticsearch client: %w", err)
	}
	esStorage := storage.NewElasticsearchStorageWithURL(esClient, cfg.ElasticsearchIndex, cfg.ElasticsearchURL)

	mapping, err := readMapping()
	if err != nil {
		log.Warn("Could not read mapping file from any location", zap.Error(err))
		return esStorage, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := esStorage.CreateIndex(ctx, mapping); err != nil {
		log.Warn("Could not create index", zap.Error(err))
	} else {
		log.Info("Elasticsearch index created/verified", zap.String("index", cfg.ElasticsearchIndex))
	}
	return esStorage, nil
}

// readMapping ищет файл маппинга в разных местах.
func readMapping() (string, error) {
	paths := []string{
		"migrations/elasticsearch_mapping.json",
		"../migrations/elasticsearch_mapping.json",
		filepath.Join(filepath.Dir(os.Args[0]), "../migrations/elasticsearch_mapping.json"),
	}
	var lastErr error
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), nil
		}
		lastErr = err
	}
	return "", lastErr
}
