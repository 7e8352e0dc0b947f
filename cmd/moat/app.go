package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/moat/internal/config"
	"github.com/hammamikhairi/moat/internal/domain"
	"github.com/hammamikhairi/moat/internal/engine"
	"github.com/hammamikhairi/moat/internal/logger"
	"github.com/hammamikhairi/moat/internal/recipe"
	"github.com/hammamikhairi/moat/internal/sound"
	"github.com/hammamikhairi/moat/internal/storage"
)

// flags holds the persistent command-line overrides of the environment
// config.
type flags struct {
	verbose bool
	quiet   bool
	logFile string
	catalog string
	style   string
	sound   bool
}

// app is the wired application shared by every subcommand.
type app struct {
	cfg     config.Config
	log     *logger.Logger
	catalog *recipe.Catalog
	engine  *engine.Engine
	chime   *sound.Chime
	closers []io.Closer
}

// resolveConfig loads the environment config and applies the flags the
// user actually set.
func resolveConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	fs := cmd.Flags()
	if fs.Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if fs.Changed("catalog") {
		cfg.CatalogPath = f.catalog
	}
	if fs.Changed("style") {
		cfg.Style = f.style
	}
	if fs.Changed("sound") {
		cfg.Sound = f.sound
	}
	if f.verbose {
		cfg.LogLevel = logger.LevelVerbose.String()
	}
	if f.quiet {
		cfg.LogLevel = logger.LevelOff.String()
	}
	return cfg, cfg.Validate()
}

// newApp wires logger, catalog, store, engine and the optional chime.
func newApp(ctx context.Context, cfg config.Config, errOut io.Writer) (*app, error) {
	a := &app{cfg: cfg}

	// Direct logs to a file by default so the dashboard stays clean.
	logOut := errOut
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		if dir := filepath.Dir(cfg.LogFile); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(errOut, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			logOut = f
			a.closers = append(a.closers, f)
		}
	}

	// Third-party libraries that use the log package go to the same place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	a.log = logger.New(cfg.Level(), logOut)

	var err error
	if cfg.CatalogPath != "" {
		a.catalog, err = recipe.LoadFile(cfg.CatalogPath, a.log)
	} else {
		a.catalog, err = recipe.NewCatalog(a.log)
	}
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	var opts []engine.Option
	if cfg.Sound {
		sink, err := sound.NewOtoSink(a.log)
		if err != nil {
			a.log.Warn("audio unavailable, sound disabled: %v", err)
		} else {
			a.chime = sound.NewChime(sink, a.log)
			a.chime.Start(ctx)
			opts = append(opts, engine.WithUnlockHook(func(res domain.UnlockResult) {
				a.chime.Ring(res.Session.Progress.ChaosMeter)
			}))
		}
	}

	store := storage.NewMemoryStore(a.log)
	a.engine = engine.New(a.catalog, store, a.log, opts...)
	a.log.Debug("app wired (catalog=%d recipes, style=%s, sound=%v)", a.catalog.Len(), cfg.Style, a.chime != nil)
	return a, nil
}

// Close stops the chime and closes the log file.
func (a *app) Close() {
	if a.chime != nil {
		a.chime.Stop()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	for _, c := range a.closers {
		_ = c.Close()
	}
	stdlog.SetOutput(os.Stderr)
}

// resolve maps a user reference to a recipe id, or returns ErrNotFound.
func (a *app) resolve(ctx context.Context, ref string) (string, error) {
	id, ok := a.engine.Resolve(ctx, ref)
	if !ok {
		return "", fmt.Errorf("recipe %q: %w", ref, domain.ErrNotFound)
	}
	return id, nil
}
