// Package main provides the charlm command line interface.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CTAG07/charlm/pkg/charlm"
	"github.com/CTAG07/charlm/pkg/corpus"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// app carries the state shared by every command once the config is loaded.
type app struct {
	configPath string
	logLevel   string
	dbPath     string

	config *Config
	logger *slog.Logger
}

func main() {
	rootCmd := newRootCmd(&app{})
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "charlm",
		Short:         "Character-level sliding-window language model",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "path to the corpus database")

	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newInspectCmd(a))
	rootCmd.AddCommand(newCorpusCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newServeCmd(a))

	return rootCmd
}

// load reads the config, applies the persistent flag overrides and builds the logger.
func (a *app) load(cmd *cobra.Command) error {
	config, err := LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		config.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("db") {
		config.Storage.DatabasePath = a.dbPath
	}
	if err = config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.config = config
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))
	return nil
}

// openStore opens the corpus database, creating it and its schema if needed.
// The returned function closes both the store and the database.
func (a *app) openStore() (*corpus.Store, func(), error) {
	path := a.config.Storage.DatabasePath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := openDB(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to setup corpus schema: %w", err)
	}
	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create corpus store: %w", err)
	}
	store.SetLogger(a.logger)

	closeFn := func() {
		store.Close()
		if err := db.Close(); err != nil {
			a.logger.Error("Failed to close database", "error", err)
		}
	}
	return store, closeFn, nil
}

// modelFlags are the flags shared by every command that trains a model.
type modelFlags struct {
	window int
	seed   uint64
	file   string
	corpus string
}

func (f *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.window, "window", "w", 0, "window length in characters (default from config)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for deterministic generation (default from config, else random)")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "train on a text file ('-' for stdin)")
	cmd.Flags().StringVarP(&f.corpus, "corpus", "c", "", "train on a stored corpus document")
	cmd.MarkFlagsMutuallyExclusive("file", "corpus")
}

// trainedModel is a trained model together with the settings it was built from.
type trainedModel struct {
	model  *charlm.Model
	source string
	seed   *uint64
}

// trainModel builds a model from the flags and config and trains it on the
// selected file or stored document.
func (a *app) trainModel(ctx context.Context, cmd *cobra.Command, f *modelFlags) (*trainedModel, error) {
	window := a.config.Model.WindowLength
	if cmd.Flags().Changed("window") {
		window = f.window
	}
	seed := a.config.Model.Seed
	if cmd.Flags().Changed("seed") {
		seed = &f.seed
	}

	opts := []charlm.Option{charlm.WithLogger(a.logger)}
	if seed != nil {
		opts = append(opts, charlm.WithSeed(*seed))
	}
	model, err := charlm.New(window, opts...)
	if err != nil {
		return nil, err
	}

	var r io.Reader
	var source string
	switch {
	case f.file == "-":
		r, source = cmd.InOrStdin(), "stdin"
	case f.file != "":
		file, err := os.Open(f.file)
		if err != nil {
			return nil, fmt.Errorf("failed to open corpus file: %w", err)
		}
		defer func(file *os.File) {
			_ = file.Close()
		}(file)
		r, source = file, f.file
	case f.corpus != "":
		store, closeStore, err := a.openStore()
		if err != nil {
			return nil, err
		}
		defer closeStore()
		r, err = store.OpenDocument(ctx, f.corpus)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("corpus document '%s' not found", f.corpus)
		}
		if err != nil {
			return nil, err
		}
		source = f.corpus
	default:
		return nil, fmt.Errorf("a training source is required: use --file or --corpus")
	}

	if err = model.Train(ctx, r); err != nil {
		return nil, fmt.Errorf("training on %s failed: %w", source, err)
	}
	return &trainedModel{model: model, source: source, seed: seed}, nil
}
