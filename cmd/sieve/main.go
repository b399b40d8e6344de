package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sievedata/sieve/pkg/runner"
	"github.com/sievedata/sieve/pkg/sieve"
)

var version = "0.1.0-dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sieve",
		Short: "Partition a user-records dump into clean and garbage datasets",
		Long: "sieve ingests a delimited user-records file in fixed-size batches,\n" +
			"normalizes columns to the canonical schema, validates every row and\n" +
			"writes per-batch chunk files plus merged final datasets.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Flags().String("config", "", "path to a TOML or YAML config file")
	cmd.Flags().String("input", "", "input file (semicolon-delimited, header row)")
	cmd.Flags().String("clean-prefix", "", "path prefix for clean outputs")
	cmd.Flags().String("garbage-prefix", "", "path prefix for garbage outputs")
	cmd.Flags().Int("batch-size", 0, "rows per batch (default from config)")
	cmd.Flags().String("audit", "", "optional JSONL audit stream for rejection reasons")
	cmd.Flags().Bool("parquet", false, "mirror final datasets as Parquet")
	cmd.Flags().Bool("global-duplicates", false, "track duplicate pairs across the whole run")
	cmd.Flags().Bool("debug", false, "enable debug logging")
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	log := setupLogging(cmd)

	cfg := sieve.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		cfg, err = sieve.Load(path)
		if err != nil {
			return err
		}
	}
	applyFlags(cmd, &cfg)

	res, err := runner.New(cfg, log).Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), res.Summary.Text())
	if n := res.FailedBatches(); n > 0 {
		log.Warn().Int("failed_batches", n).Msg("some batches were dropped")
	}
	return nil
}

// applyFlags overlays explicitly-set flags on the loaded config.
func applyFlags(cmd *cobra.Command, cfg *sieve.Config) {
	f := cmd.Flags()
	if f.Changed("input") {
		cfg.Input, _ = f.GetString("input")
	}
	if f.Changed("clean-prefix") {
		cfg.CleanPrefix, _ = f.GetString("clean-prefix")
	}
	if f.Changed("garbage-prefix") {
		cfg.GarbagePrefix, _ = f.GetString("garbage-prefix")
	}
	if f.Changed("batch-size") {
		cfg.BatchSize, _ = f.GetInt("batch-size")
	}
	if f.Changed("audit") {
		cfg.Audit, _ = f.GetString("audit")
	}
	if f.Changed("parquet") {
		cfg.Parquet, _ = f.GetBool("parquet")
	}
	if f.Changed("global-duplicates") {
		if global, _ := f.GetBool("global-duplicates"); global {
			cfg.DuplicateScope = sieve.ScopeGlobal
		}
	}
}

func setupLogging(cmd *cobra.Command) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		logger := zerolog.New(cw).With().Timestamp().Logger()
		logger.Error().Err(err).Msg("run failed")
		fmt.Fprintln(os.Stderr, "An error occurred:", err)
		os.Exit(1)
	}
}
