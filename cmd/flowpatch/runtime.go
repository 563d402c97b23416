package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/oklog/ulid/v2"

	"github.com/Tsinling0525/flowpatch/config"
	"github.com/Tsinling0525/flowpatch/engine"
	"github.com/Tsinling0525/flowpatch/infra"
	"github.com/Tsinling0525/flowpatch/log"
	"github.com/Tsinling0525/flowpatch/plugin"
)

// runtime wires one command invocation: config, logger, file store, engine.
type runtime struct {
	cfg     *config.Config
	logger  log.Logger
	files   plugin.FileStore
	engine  *engine.Engine
	backups *infra.Backups
	out     io.Writer
}

func newRuntime(cfg *config.Config, logger log.Logger, files plugin.FileStore, out io.Writer) *runtime {
	return &runtime{
		cfg:     cfg,
		logger:  logger,
		files:   files,
		engine:  engine.New(plugin.Deps{Bus: infra.LogBus{Logger: logger}}),
		backups: infra.NewBackups(files, cfg.BackupDir),
		out:     out,
	}
}

// loadConfig layers defaults, the config file, then the environment.
func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.ParseFile(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// setup builds the runtime for a CLI command and a context cancelled on
// SIGINT/SIGTERM.
func setup(c *cli.Context) (context.Context, *runtime, func(), error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, nil, nil, usageError("config: %v", err)
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	logger := log.New(log.LevelFromString(cfg.LogLevel)).With("run", ulid.Make().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = log.WithLogger(ctx, logger)
	return ctx, newRuntime(cfg, logger, infra.NewLocalFiles(), os.Stdout), stop, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// arg returns positional argument i, or "" when it was not given.
func arg(c *cli.Context, i int) string {
	if c.NArg() <= i {
		return ""
	}
	return c.Arg(i)
}
