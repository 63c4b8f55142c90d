package datagen

import (
	"context"
	"fmt"
	"time"

	"samplegen/internal/rules"
	"samplegen/internal/sample"
)

// DefaultScoreScale is the |score| written for tablebase wins and
// losses when the config does not set one.
const DefaultScoreScale = 1024

// Run samples, validates, labels and writes positions until
// cfg.Samples records are written or the context ends. The counters
// are returned even on error, so partial runs stay accounted for.
func Run(ctx context.Context, cfg Config) (Counters, error) {
	var c Counters

	if cfg.Engine == nil {
		cfg.Engine = rules.NewDragonEngine()
	}
	if cfg.ScoreScale == 0 {
		cfg.ScoreScale = DefaultScoreScale
	}
	if cfg.ProgressEvery == 0 {
		cfg.ProgressEvery = cfg.Samples / 100
		if cfg.ProgressEvery == 0 {
			cfg.ProgressEvery = 1
		}
	}

	gen, err := NewGenerator(cfg.Pieces, cfg.Seed)
	if err != nil {
		return c, err
	}
	out, err := NewWriter(cfg.Out, cfg.Format)
	if err != nil {
		return c, err
	}
	defer out.Close()

	window := NewWindow(cfg.DedupWindow)
	start := time.Now()

	for c.Written < cfg.Samples {
		if err := ctx.Err(); err != nil {
			return c, err
		}
		if cfg.MaxAttempts > 0 && c.Attempts >= cfg.MaxAttempts {
			return c, fmt.Errorf("no sample in %d attempts (%d of %d written); constraints may be unsatisfiable", c.Attempts, c.Written, cfg.Samples)
		}
		c.Attempts++

		pieces, whiteToMove, ok := gen.Candidate()
		if !ok {
			c.DoubledPawns++
			continue
		}
		board, err := cfg.Engine.Build(pieces, whiteToMove)
		if err != nil {
			return c, fmt.Errorf("build candidate: %w", err)
		}
		if !Acceptable(cfg.Engine, board, cfg.CheckPolicy) {
			c.Rejected++
			continue
		}
		// Position keys are only computed when a window wants them.
		if cfg.DedupWindow > 0 && !window.Accept(board.Key()) {
			c.DedupHits++
			continue
		}

		fen := board.FEN()
		result, score, ok := Label(ctx, cfg.Table, fen, cfg.ScoreScale)
		if !ok {
			c.TableMisses++
			continue
		}

		rec := sample.Record{
			WhiteToMove: whiteToMove,
			Pieces:      pieces,
			Score:       score,
			Result:      result,
		}
		if err := out.Write(fen, rec); err != nil {
			return c, fmt.Errorf("write sample: %w", err)
		}
		c.Written++

		if c.Written%cfg.ProgressEvery == 0 {
			cfg.Logger.Info().
				Uint64("written", c.Written).
				Uint64("attempts", c.Attempts).
				Float64("samples_per_sec", float64(c.Written)/time.Since(start).Seconds()).
				Msg("generating samples")
		}
	}

	if err := out.Close(); err != nil {
		return c, fmt.Errorf("close output: %w", err)
	}
	return c, nil
}
