package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/bobular/GADM-to-OBO/config"
	"github.com/bobular/GADM-to-OBO/continent"
	"github.com/bobular/GADM-to-OBO/export"
	"github.com/bobular/GADM-to-OBO/gadm"
	"github.com/bobular/GADM-to-OBO/taxonomy"
)

// App wires the pipeline together: load continents, read level
// files, build the taxonomy, disambiguate, export. One-shot by
// default; watch mode repeats the whole pipeline on input changes.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *taxonomy.Metrics
}

// NewApp creates a new application instance. Each invocation gets a
// run id for log correlation.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", uuid.NewString())
	return &App{
		cfg:     cfg,
		logger:  logger,
		metrics: taxonomy.NewMetrics(),
	}
}

// RunOnce executes the full pipeline a single time. A fatal error
// aborts with no output written.
func (a *App) RunOnce(stem string) error {
	start := time.Now()

	store, err := a.build(stem)
	if err != nil {
		a.metrics.RebuildFailed()
		return err
	}

	if err := a.writeOutput(store); err != nil {
		a.metrics.RebuildFailed()
		return err
	}

	a.metrics.Rebuild()
	a.logger.Info("build complete",
		"terms", store.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	a.metrics.LogSummary(a.logger)
	return nil
}

// build runs ingestion, continent merging, and disambiguation, and
// returns the completed store.
func (a *App) build(stem string) (*taxonomy.Store, error) {
	// The continents source must load before any record processing.
	ontology, err := continent.Load(a.cfg.Ingest.ContinentsSource, a.cfg.Taxonomy.RootName)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("continents loaded",
		"path", a.cfg.Ingest.ContinentsSource,
		"nodes", ontology.Len(),
		"root", ontology.Root().Name)

	paths, err := gadm.DiscoverLevels(stem, a.cfg.Ingest.MaxLevel)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("datasets discovered", "levels", len(paths))

	levels, err := gadm.ReadLevels(paths)
	if err != nil {
		return nil, err
	}

	store := taxonomy.NewStore(a.cfg.Taxonomy.AccessionPrefix)
	merger := taxonomy.NewMerger(store, ontology, a.metrics, a.logger)
	builder := taxonomy.NewBuilder(store, merger, a.metrics, a.logger)
	if err := builder.Build(levels); err != nil {
		return nil, err
	}

	if a.cfg.Disambiguate() {
		taxonomy.NewDisambiguator(store, a.cfg.Ingest.MaxLevel, a.metrics, a.logger).Run()
	} else {
		a.logger.Info("disambiguation disabled")
	}

	return store, nil
}

// writeOutput serializes the store to the configured destination.
// File output is written to a temp file and renamed so a watcher
// rewrite never exposes a half-written ontology.
func (a *App) writeOutput(store *taxonomy.Store) error {
	opts := export.Options{
		Ontology:  a.cfg.Output.OntologyName,
		Timestamp: a.cfg.Output.Timestamp,
	}

	if a.cfg.Output.Path == "" {
		return export.Write(os.Stdout, store, opts)
	}

	tmp, err := os.CreateTemp(filepath.Dir(a.cfg.Output.Path), ".gadm2obo-*")
	if err != nil {
		return fmt.Errorf("create output temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.Write(tmp, store, opts); err != nil {
		tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), a.cfg.Output.Path); err != nil {
		return fmt.Errorf("replace output: %w", err)
	}
	a.logger.Info("ontology written", "path", a.cfg.Output.Path)
	return nil
}

// Watch runs the pipeline once, then rebuilds whenever a dataset
// level file or the continents source changes. Failed rebuilds are
// logged; the watcher keeps running until interrupted.
func (a *App) Watch(ctx context.Context, stem string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := a.RunOnce(stem); err != nil {
		// The initial build may fail on incomplete inputs; watch mode
		// stays up so a fix triggers the next attempt.
		a.logger.Error("initial build failed", "error", err)
	}

	watchPaths, err := a.watchPaths(stem)
	if err != nil {
		return err
	}
	watcher, err := gadm.NewWatcher(watchPaths, a.cfg.Watch.Debounce, a.logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	go watcher.Run(ctx)

	if a.cfg.Watch.MetricsAddr != "" {
		a.serveMetrics(ctx)
	}

	a.logger.Info("watching for changes", "files", len(watchPaths))
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("watch stopped")
			return nil
		case <-watcher.Events():
			a.logger.Info("inputs changed, rebuilding")
			if err := a.RunOnce(stem); err != nil {
				a.logger.Error("rebuild failed", "error", err)
			}
		}
	}
}

// watchPaths lists the files whose changes trigger a rebuild.
func (a *App) watchPaths(stem string) ([]string, error) {
	paths, err := gadm.DiscoverLevels(stem, a.cfg.Ingest.MaxLevel)
	if err != nil {
		return nil, err
	}
	return append(paths, a.cfg.Ingest.ContinentsSource), nil
}

func (a *App) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: a.cfg.Watch.MetricsAddr, Handler: mux}

	go func() {
		a.logger.Info("serving metrics", "addr", a.cfg.Watch.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
