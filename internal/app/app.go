package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/exporter"
	"github.com/ternarybob/vendo/internal/services/forecast"
	"github.com/ternarybob/vendo/internal/services/instagram"
	"github.com/ternarybob/vendo/internal/services/ocr"
	"github.com/ternarybob/vendo/internal/services/promo"
	"github.com/ternarybob/vendo/internal/services/wayback"
	storage "github.com/ternarybob/vendo/internal/storage/badger"
)

// App wires storage, collectors, the detection pipeline and the exporters
type App struct {
	config    *common.Config
	logger    arbor.ILogger
	db        *storage.BadgerDB
	snapshots *storage.SnapshotStorage
	collector *wayback.Service
	pipeline  *promo.Pipeline
	exporter  *exporter.Exporter
	feed      *forecast.FeedWriter
}

// New initializes the application from resolved configuration
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	db, err := storage.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	snapshots := storage.NewSnapshotStorage(db, logger)
	client := wayback.NewClient(config.Wayback, logger)

	opts := promo.DefaultOptions()
	opts.ContextWindow = config.Pipeline.ContextWindow
	opts.MinKeywords = config.Pipeline.MinKeywords
	opts.MergeGapDays = config.Pipeline.MergeGapDays
	opts.EnableOCR = config.Pipeline.EnableOCR
	opts.OCRKeywordThreshold = config.Pipeline.OCRKeywordThreshold

	return &App{
		config:    config,
		logger:    logger,
		db:        db,
		snapshots: snapshots,
		collector: wayback.NewService(client, snapshots, logger),
		pipeline:  promo.NewPipeline(opts, ocr.NewDisabled(), logger),
		exporter:  exporter.NewExporter(config.Output.Dir, logger),
		feed:      forecast.NewFeedWriter(config.Output.Dir, logger),
	}, nil
}

// RunOnce performs a full collection and extraction cycle for the
// configured brand: collect archive captures, ingest the caption export if
// configured, run detection over everything stored, and write the feeds.
func (a *App) RunOnce(ctx context.Context) error {
	runID := uuid.New().String()
	brand := a.config.Brand.Name
	started := time.Now()

	a.logger.Info().Str("run_id", runID).Str("brand", brand).Msg("Starting run")

	fetched, err := a.collector.Collect(ctx, brand, a.config.Brand.URLs)
	if err != nil {
		return fmt.Errorf("archive collection failed: %w", err)
	}

	if a.config.Brand.CaptionsCSV != "" {
		if err := a.ingestCaptions(brand); err != nil {
			return err
		}
	}

	snapshots, err := a.snapshots.ListSnapshots(brand)
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		a.logger.Warn().Str("brand", brand).Msg("No snapshots collected, nothing to analyze")
		return nil
	}

	result := a.pipeline.Run(ctx, brand, snapshots)

	if _, err := a.exporter.WriteRecords(brand, result.Records); err != nil {
		return err
	}
	if _, err := a.exporter.WriteEpisodes(brand, result.Episodes); err != nil {
		return err
	}
	if _, err := a.exporter.WriteRejections(brand, result.Rejections); err != nil {
		return err
	}
	if _, err := a.feed.WriteSeries(brand, result.Series); err != nil {
		return err
	}

	prediction := forecast.PredictNextSale(result.Episodes, time.Now())
	a.logger.Info().Str("run_id", runID).Str("prediction", prediction.String()).Msg("Baseline estimate")

	a.db.RunGC()

	a.logger.Info().
		Str("run_id", runID).
		Int("fetched", fetched).
		Int("snapshots", len(snapshots)).
		Int("episodes", len(result.Episodes)).
		Str("elapsed", time.Since(started).Round(time.Second).String()).
		Msg("Run complete")
	return nil
}

// ingestCaptions loads the Instagram caption export into storage and writes
// the caption sales report alongside the other outputs
func (a *App) ingestCaptions(brand string) error {
	reader := instagram.NewReader(a.logger)
	posts, err := reader.ReadCaptions(a.config.Brand.CaptionsCSV)
	if err != nil {
		return fmt.Errorf("caption ingest failed: %w", err)
	}

	for _, snapshot := range reader.ToSnapshots(posts, brand) {
		if err := a.snapshots.SaveSnapshot(snapshot); err != nil {
			return fmt.Errorf("failed to store caption snapshot: %w", err)
		}
	}

	report := instagram.AnalyzePosts(posts, brand)
	reportPath := filepath.Join(a.config.Output.Dir, fmt.Sprintf("%s_sales_data.csv", brand))
	if err := instagram.WriteSalesCSV(reportPath, report); err != nil {
		return fmt.Errorf("caption sales report failed: %w", err)
	}

	a.logger.Info().Int("posts", len(posts)).Str("path", reportPath).Msg("Caption export ingested")
	return nil
}

// Close releases storage resources
func (a *App) Close() error {
	return a.db.Close()
}
