package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"samplegen/internal/convert"
	"samplegen/internal/logx"
	"samplegen/internal/tb"
)

func main() {
	defaultTB := os.Getenv("SAMPLEGEN_TB_URL")

	var (
		inPath        = flag.String("in", "", "Input .bin file (a .zst suffix decompresses)")
		outPath       = flag.String("out", "", "Output .bin file (a .zst suffix compresses)")
		tbURL         = flag.String("tb", defaultTB, "Tablebase service URL")
		tbVariant     = flag.String("tb-variant", "atomic", "Tablebase endpoint variant")
		tbPieces      = flag.Int("tb-pieces", convert.DefaultMaxPieces, "Max pieces to probe")
		scoreScale    = flag.Int("score-scale", 1024, "|score| for rescored wins and losses")
		progressEvery = flag.Uint64("progress-every", 0, "Progress every N written records (0 disables)")
		debug         = flag.Bool("debug", false, "Debug logging")
	)
	flag.Parse()

	if *inPath == "" || *outPath == "" || *tbURL == "" {
		fmt.Fprintln(os.Stderr, "Usage: rescore --in <file.bin> --out <file.bin> --tb <url> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logx.NewLogger(*debug)

	table, err := tb.NewHTTPTable(tb.HTTPConfig{BaseURL: *tbURL, Variant: *tbVariant})
	if err != nil {
		logger.Fatal().Err(err).Msg("tablebase client")
	}

	logger.Info().
		Str("in", *inPath).
		Str("out", *outPath).
		Str("tb", *tbURL).
		Int("tb_pieces", *tbPieces).
		Msg("starting rescore")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	c, err := convert.Rescore(ctx, convert.RescoreConfig{
		In:            *inPath,
		Out:           *outPath,
		Table:         table,
		MaxPieces:     *tbPieces,
		ScoreScale:    int16(*scoreScale),
		ProgressEvery: *progressEvery,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Uint64("records", c.Total).Msg("rescore failed")
	}

	elapsed := time.Since(start)
	logger.Info().
		Uint64("total", c.Total).
		Uint64("written", c.Written).
		Uint64("rescored", c.Rescored).
		Uint64("misses", c.Misses).
		Uint64("invalid", c.Invalid).
		Uint64("missing_kings", c.MissingKings).
		Dur("elapsed", elapsed).
		Float64("records_per_sec", float64(c.Total)/elapsed.Seconds()).
		Msg("rescore complete")
}
