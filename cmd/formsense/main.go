// Package main implements the formsense CLI: classify form fields in HTML
// files, record corrections, and retrain the pattern library from them.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcbjorn/formsense/internal/config"
	"github.com/arcbjorn/formsense/pkg/detect"
	"github.com/arcbjorn/formsense/pkg/kvstore"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "formsense",
	Short: "Classify form fields in HTML documents",
	Long: `formsense classifies interactive form controls (inputs, selects,
textareas) into semantic field types using attribute, context and shape
signals, and learns from explicit corrections.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/formsense/config.yaml)")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(correctCmd)
	rootCmd.AddCommand(retrainCmd)
}

// setup loads config and builds the logger shared by all commands.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing log level: %w", err)
	}

	var zcfg zap.Config
	if cfg.Log.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level

	logger, err := zcfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	return cfg, logger, nil
}

// openDetector builds a detector backed by the configured bolt store,
// hydrates its corrections and re-derives induced patterns from the
// persisted history, so earlier sessions' corrections shape this one's
// classifications. The returned closer releases the store.
func openDetector(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger) (*detect.Detector, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("creating store directory: %w", err)
	}

	store, err := kvstore.OpenBolt(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}

	d := detect.New(detect.WithStore(store), detect.WithLogger(logger))
	d.LoadCorrections(cmd.Context())
	if err := d.Retrain(cmd.Context()); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("deriving induced patterns: %w", err)
	}
	return d, func() { store.Close() }, nil
}
