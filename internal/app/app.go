// Package app is the application layer between the CLI and the organize
// service. It constructs all dependencies from config, exposes high-level
// operations, and manages resource lifecycles on Close.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jacobtruman/OrganizePictures/internal/config"
	"github.com/jacobtruman/OrganizePictures/internal/exiftool"
	"github.com/jacobtruman/OrganizePictures/internal/fs"
	"github.com/jacobtruman/OrganizePictures/internal/index"
	"github.com/jacobtruman/OrganizePictures/internal/model"
	"github.com/jacobtruman/OrganizePictures/internal/organize"
)

// App wires config, the content index, the metadata gateway, and the
// filesystem manager into an Organizer. The caller must call Close when done.
type App struct {
	cfg     *config.Config
	idx     *index.SQLiteIndex
	gateway *exiftool.Gateway
	fsmgr   *fs.Manager
	logger  organize.Logger
	logFile *os.File
}

// New creates a fully wired App from the given config. verbose enables
// debug-level logging.
func New(cfg *config.Config, verbose bool) (*App, error) {
	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, runID, verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	idx, err := index.New(cfg.Database)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening content index: %w", err)
	}

	gateway, err := exiftool.NewGateway()
	if err != nil {
		idx.Close()
		logFile.Close()
		return nil, fmt.Errorf("starting metadata gateway: %w", err)
	}

	return &App{
		cfg:     cfg,
		idx:     idx,
		gateway: gateway,
		fsmgr:   fs.NewManager(),
		logger:  &slogAdapter{l: logger},
		logFile: logFile,
	}, nil
}

// applyConfig layers config-file settings under the explicit options: the
// [media] extension sets and the [convert] disabled switch.
func (a *App) applyConfig(opts organize.Options) organize.Options {
	opts.ImageExtensions = a.cfg.Media.ImageExtensions
	opts.VideoExtensions = a.cfg.Media.VideoExtensions
	opts.ConvertDisabled = a.cfg.Convert.Disabled
	return opts
}

// Organize runs the full pipeline with the given options, recording the run
// in the index. It returns the run summary; per-file failures are counted in
// the summary, not returned as an error.
func (a *App) Organize(ctx context.Context, opts organize.Options) (model.Summary, error) {
	opts = a.applyConfig(opts)

	started := time.Now().UTC()
	runID, err := a.idx.StartRun(opts.SourceDir, started)
	if err != nil {
		return model.Summary{}, fmt.Errorf("recording run: %w", err)
	}

	org := organize.NewOrganizer(a.gateway, a.idx, a.fsmgr, a.logger, organize.RealClock{}, opts)
	summary, runErr := org.Run(ctx)

	if err := a.idx.FinishRun(runID, time.Now().UTC(), summary); err != nil {
		a.logger.Error("finishing run record", "run", runID, "error", err)
	}

	return summary, runErr
}

// History returns the most recent organization runs.
func (a *App) History(limit int) ([]model.Run, error) {
	return a.idx.RecentRuns(limit)
}

// IndexSize returns the number of hashes in the content index.
func (a *App) IndexSize() (int, error) {
	return a.idx.Count()
}

// Config exposes the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Gateway exposes the metadata gateway for single-file commands.
func (a *App) Gateway() organize.MetadataGateway {
	return a.gateway
}

// Filesystem exposes the filesystem manager for single-file commands.
func (a *App) Filesystem() organize.FilesystemManager {
	return a.fsmgr
}

// Logger exposes the structured logger.
func (a *App) Logger() organize.Logger {
	return a.logger
}

// Close closes the index, the metadata gateway, and the log file.
func (a *App) Close() error {
	var firstErr error

	if err := a.idx.Close(); err != nil {
		firstErr = fmt.Errorf("closing content index: %w", err)
	}
	if err := a.gateway.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing metadata gateway: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
