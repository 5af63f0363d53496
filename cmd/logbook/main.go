package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/logbook/internal/app"
	"github.com/nikbrunner/logbook/internal/config"
	"github.com/nikbrunner/logbook/internal/logging"
	"github.com/nikbrunner/logbook/internal/storage"
)

// globalFlags are the persistent root flags. Empty values leave the config
// file setting untouched.
type globalFlags struct {
	configPath string
	variant    string
	dataDir    string
	backend    string
	verbose    bool
}

var flags globalFlags

func main() {
	rootCmd := &cobra.Command{
		Use:           "logbook",
		Short:         "Personal blog and media log",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/logbook/config.yaml)")
	pf.StringVar(&flags.variant, "variant", "", "log variant: blog or medialog")
	pf.StringVar(&flags.dataDir, "data-dir", "", "data directory")
	pf.StringVar(&flags.backend, "backend", "", "storage backend: auto, json or sqlite")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(
		addCmd(),
		editCmd(),
		rmCmd(),
		showCmd(),
		listCmd(),
		tagsCmd(),
		findCmd(),
		exportCmd(),
		importCmd(),
		statsCmd(),
		clearCmd(),
		serveCmd(),
		tuiCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a command needs once configuration is resolved.
type env struct {
	cfg   *config.Config
	state *app.App
	log   *zap.Logger
	store storage.Storage
}

func (e *env) Close() {
	if c, ok := e.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			e.log.Warn("closing storage", zap.Error(err))
		}
	}
	_ = e.log.Sync()
}

func loadConfig() (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("getting config path: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flags.variant != "" {
		if err := cfg.SetVariant(flags.variant); err != nil {
			return nil, err
		}
	}
	if flags.dataDir != "" {
		cfg.Storage.Dir = flags.dataDir
	}
	if flags.backend != "" {
		cfg.Storage.Backend = flags.backend
	}
	return cfg, nil
}

func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if flags.verbose {
		level = "debug"
	}
	log, err := logging.New(level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Dir, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	state, err := app.New(app.Params{
		Storage:       store,
		Variant:       cfg.ModelVariant(),
		Location:      loc,
		Logger:        log,
		MaxMediaBytes: cfg.Media.MaxBytes,
	})
	if err != nil {
		if c, ok := store.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, fmt.Errorf("loading entries: %w", err)
	}

	log.Debug("environment ready",
		zap.String("variant", cfg.Variant),
		zap.String("backend", cfg.Storage.Backend),
		zap.String("dir", cfg.Storage.Dir))
	return &env{cfg: cfg, state: state, log: log, store: store}, nil
}

// withEnv opens the environment, runs fn and closes it again.
func withEnv(fn func(*env) error) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

var errAborted = errors.New("aborted")
