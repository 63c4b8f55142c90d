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
)

func main() {
	var (
		inPath       = flag.String("bin", "", "Input .bin file (a .zst suffix decompresses)")
		outPath      = flag.String("out", "", "Output .txt file (a .zst suffix compresses)")
		limit        = flag.Uint64("limit", 0, "Max records to write (0 = all)")
		strict       = flag.Bool("strict", false, "Stop on the first invalid record")
		allowNoKings = flag.Bool("allow-no-kings", false, "Also convert records without both kings")
		updates      = flag.Int("progress-updates", 0, "How many progress updates (0 disables)")
		debug        = flag.Bool("debug", false, "Debug logging")
	)
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: bin2txt --bin <file.bin[.zst]> --out <file.txt> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logx.NewLogger(*debug)
	logger.Info().
		Str("bin", *inPath).
		Str("out", *outPath).
		Uint64("limit", *limit).
		Bool("strict", *strict).
		Msg("starting conversion")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	c, err := convert.Run(ctx, convert.Config{
		In:           *inPath,
		Out:          *outPath,
		Limit:        *limit,
		Strict:       *strict,
		AllowNoKings: *allowNoKings,
		Updates:      *updates,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Uint64("records", c.Total).Msg("conversion failed")
	}

	elapsed := time.Since(start)
	logger.Info().
		Uint64("total", c.Total).
		Uint64("written", c.Written).
		Uint64("invalid", c.Invalid).
		Uint64("missing_kings", c.MissingKings).
		Dur("elapsed", elapsed).
		Float64("records_per_sec", float64(c.Total)/elapsed.Seconds()).
		Msg("conversion complete")
}
