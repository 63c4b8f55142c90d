package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"samplegen/internal/extract"
	"samplegen/internal/logx"
)

func main() {
	defaultRatingMin := 2000
	if envRating := os.Getenv("SAMPLEGEN_RATING_MIN"); envRating != "" {
		if rating, err := strconv.Atoi(envRating); err == nil {
			defaultRatingMin = rating
		}
	}

	var (
		pgnPath    = flag.String("pgn", "", "Path to PGN file (supports .zst)")
		outPath    = flag.String("out", "", "Output .bin file (a .zst suffix compresses)")
		ratingMin  = flag.Int("rating-min", defaultRatingMin, "Rating floor for games")
		minPly     = flag.Int("min-ply", 8, "Skip each game's first plies")
		maxGames   = flag.Uint64("max-games", 0, "Maximum games to convert (0 = unlimited)")
		scoreScale = flag.Int("score-scale", 1024, "|score| for decisive games")
		debug      = flag.Bool("debug", false, "Debug logging")
	)
	flag.Parse()

	if *pgnPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: pgn2bin --pgn <file.pgn[.zst]> --out <file.bin> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logx.NewLogger(*debug)
	logger.Info().
		Str("pgn", *pgnPath).
		Str("out", *outPath).
		Int("rating_min", *ratingMin).
		Int("min_ply", *minPly).
		Msg("starting extraction")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	c, err := extract.Run(ctx, extract.Config{
		PGN:        *pgnPath,
		Out:        *outPath,
		RatingMin:  *ratingMin,
		MinPly:     *minPly,
		MaxGames:   *maxGames,
		ScoreScale: int16(*scoreScale),
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Uint64("games", c.Games).Msg("extraction failed")
	}

	elapsed := time.Since(start)
	logger.Info().
		Uint64("games", c.Games).
		Uint64("skipped", c.Skipped).
		Uint64("records", c.Records).
		Dur("elapsed", elapsed).
		Float64("games_per_sec", float64(c.Games)/elapsed.Seconds()).
		Msg("extraction complete")
}
