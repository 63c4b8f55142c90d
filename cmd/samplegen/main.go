package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"samplegen/internal/datagen"
	"samplegen/internal/logx"
	"samplegen/internal/tb"
)

func main() {
	defaultTB := os.Getenv("SAMPLEGEN_TB_URL")

	var (
		pieces      = flag.Int("pieces", 0, "Total pieces per position, kings included (2-32)")
		samples     = flag.Uint64("samples", 0, "How many records to generate")
		outPath     = flag.String("out", "", "Output file (a .zst suffix compresses)")
		format      = flag.String("format", "bin", "Output format: bin, txt or epd")
		seed        = flag.Int64("seed", 1, "RNG seed")
		tbURL       = flag.String("tb", defaultTB, "Tablebase service URL for WDL labels (optional)")
		tbVariant   = flag.String("tb-variant", "atomic", "Tablebase endpoint variant")
		scoreScale  = flag.Int("score-scale", datagen.DefaultScoreScale, "|score| for tablebase wins and losses")
		allowCheck  = flag.Bool("allow-check", false, "Accept positions with a king in check")
		allowDouble = flag.Bool("allow-double-check", false, "Accept positions with both kings in check")
		dedupWindow = flag.Int("dedup-window", 0, "Discard repeats among the last N positions (0 = off)")
		maxAttempts = flag.Uint64("max-attempts", 0, "Give up after N candidates (0 = keep sampling)")
		debug       = flag.Bool("debug", false, "Debug logging")
	)
	flag.Parse()

	if *pieces == 0 || *samples == 0 || *outPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: samplegen --pieces N --samples N --out <file> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logx.NewLogger(*debug)

	fmtSel, err := datagen.ParseFormat(*format)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse format")
	}

	policy := datagen.RejectChecks
	if *allowCheck {
		policy = datagen.AllowSingleCheck
		if *allowDouble {
			policy = datagen.AllowDoubleCheck
		}
	}

	cfg := datagen.Config{
		Pieces:      *pieces,
		Samples:     *samples,
		Out:         *outPath,
		Format:      fmtSel,
		Seed:        *seed,
		CheckPolicy: policy,
		ScoreScale:  int16(*scoreScale),
		DedupWindow: *dedupWindow,
		MaxAttempts: *maxAttempts,
		Logger:      logger,
	}
	if *tbURL != "" {
		table, err := tb.NewHTTPTable(tb.HTTPConfig{BaseURL: *tbURL, Variant: *tbVariant})
		if err != nil {
			logger.Fatal().Err(err).Msg("tablebase client")
		}
		cfg.Table = table
	}

	logger.Info().
		Int("pieces", *pieces).
		Uint64("samples", *samples).
		Str("out", *outPath).
		Str("format", string(fmtSel)).
		Int64("seed", *seed).
		Str("check_policy", policy.String()).
		Bool("tablebase", cfg.Table != nil).
		Msg("starting generation")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	c, err := datagen.Run(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Uint64("written", c.Written).Msg("generation failed")
	}

	elapsed := time.Since(start)
	logger.Info().
		Uint64("written", c.Written).
		Uint64("attempts", c.Attempts).
		Uint64("doubled_pawns", c.DoubledPawns).
		Uint64("rejected", c.Rejected).
		Uint64("dedup_hits", c.DedupHits).
		Uint64("table_misses", c.TableMisses).
		Dur("elapsed", elapsed).
		Float64("samples_per_sec", float64(c.Written)/elapsed.Seconds()).
		Msg("generation complete")
}
