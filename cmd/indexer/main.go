// Command indexer загружает исторический набор происшествий и выгружает его
// в индекс Elasticsearch или печатает сводку.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akozadaev/go_crime_analytical_system/internal/aggregate"
	"github.com/akozadaev/go_crime_analytical_system/internal/config"
	"github.com/akozadaev/go_crime_analytical_system/internal/loader"
	"github.com/akozadaev/go_crime_analytical_system/internal/logger"
	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"github.com/akozadaev/go_crime_analytical_system/internal/pipeline"
	"github.com/akozadaev/go_crime_analytical_system/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose  bool
	dataFile string
	timeout  time.Duration

	// index flags
	batchSize   int
	mappingFile string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "indexer",
	Short: "Load the incident dataset and publish it",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if dataFile != "" {
			cfg.DataFile = dataFile
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log, err = logger.New(level, cfg.LogFormat)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index cleaned incidents into Elasticsearch",
	Long: `Loads the dataset, derives features and bulk-indexes every retained
incident. Documents are keyed by dataset fingerprint and row, so re-running
on the same file overwrites instead of duplicating.`,
	RunE: runIndex,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print load statistics and headline figures as JSON",
	RunE:  runSummary,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataFile, "file", "", "Incident CSV (overrides DATA_FILE)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Overall operation timeout")

	indexCmd.Flags().IntVar(&batchSize, "batch", storage.DefaultBulkSize, "Documents per bulk request")
	indexCmd.Flags().StringVar(&mappingFile, "mapping", "migrations/elasticsearch_mapping.json", "Index mapping file")

	rootCmd.AddCommand(indexCmd, summaryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func loadDataset(ctx context.Context) (*pipeline.Dataset, error) {
	src := loader.NewFileSource(cfg.DataFile, cfg.SourceReadTimeout)
	p := pipeline.New(src, nil, pipeline.Options{
		Encoding:     cfg.DataEncoding,
		HourSentinel: cfg.HourSentinel,
	}, log)
	return p.Dataset(ctx)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	ds, err := loadDataset(ctx)
	if err != nil {
		return err
	}

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:         []string{cfg.ElasticsearchURL},
		DisableMetaHeader: true,
	})
	if err != nil {
		return fmt.Errorf("creating Elasticsearch client: %w", err)
	}
	esStorage := storage.NewElasticsearchStorageWithURL(esClient, cfg.ElasticsearchIndex, cfg.ElasticsearchURL)

	mapping, err := os.ReadFile(mappingFile)
	if err != nil {
		return fmt.Errorf("reading mapping: %w", err)
	}
	if err := esStorage.CreateIndex(ctx, string(mapping)); err != nil {
		return err
	}

	log.Info("Indexing incidents",
		zap.Int("count", len(ds.Incidents)),
		zap.String("index", cfg.ElasticsearchIndex),
		zap.String("fingerprint", ds.Stats.Fingerprint),
	)
	start := time.Now()
	n, err := esStorage.BulkIndexIncidents(ctx, ds.Stats.Fingerprint, ds.Incidents, batchSize)
	if err != nil {
		return fmt.Errorf("indexed %d of %d incidents: %w", n, len(ds.Incidents), err)
	}

	log.Info("Indexing completed", zap.Int("indexed", n), zap.Duration("took", time.Since(start)))
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	ds, err := loadDataset(ctx)
	if err != nil {
		return err
	}

	out := struct {
		Stats   models.LoadStats `json:"stats"`
		Summary models.Summary   `json:"summary"`
		Zones   int              `json:"zones"`
	}{
		Stats:   ds.Stats,
		Summary: aggregate.Summarize(ds.Incidents),
		Zones:   len(ds.Zones),
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
