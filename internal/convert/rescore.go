package convert

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"samplegen/internal/rules"
	"samplegen/internal/sample"
	"samplegen/internal/tb"
	"samplegen/internal/zio"
)

// DefaultMaxPieces bounds tablebase probes during a rescore. Positions
// with more pieces than the table covers pass through unprobed.
const DefaultMaxPieces = 6

// RescoreConfig configures one relabeling run.
type RescoreConfig struct {
	In  string // binary input; a .zst suffix decompresses transparently
	Out string // binary output; a .zst suffix compresses transparently

	Table      tb.Table // outcome source, required
	MaxPieces  int      // probe ceiling (default 6)
	ScoreScale int16    // |score| for rescored wins and losses (default 1024)

	ProgressEvery uint64 // written records between progress events (0 = none)
	Engine        rules.Engine
	Logger        zerolog.Logger
}

// RescoreCounters tallies one relabeling run.
type RescoreCounters struct {
	Total        uint64 // records decoded
	Written      uint64 // records re-emitted
	Invalid      uint64 // dropped for invalid fields
	MissingKings uint64 // dropped for king count
	Rescored     uint64 // labels overwritten from the table
	Misses       uint64 // probed without an answer; labels kept
}

// Rescore copies a binary sample stream from cfg.In to cfg.Out,
// overwriting the score and result of every record the outcome table can
// prove. Unproven records and records beyond the probe ceiling keep
// their labels. Invalid and kingless records are dropped; structural
// stream damage is fatal. The counters are returned even on error.
func Rescore(ctx context.Context, cfg RescoreConfig) (RescoreCounters, error) {
	var c RescoreCounters

	if cfg.Table == nil {
		return c, errors.New("rescore: outcome table required")
	}
	if cfg.Engine == nil {
		cfg.Engine = rules.NewDragonEngine()
	}
	if cfg.MaxPieces == 0 {
		cfg.MaxPieces = DefaultMaxPieces
	}
	if cfg.ScoreScale == 0 {
		cfg.ScoreScale = 1024
	}

	in, err := zio.Open(cfg.In)
	if err != nil {
		return c, err
	}
	defer in.Close()

	out, err := zio.Create(cfg.Out)
	if err != nil {
		return c, err
	}
	defer out.Close()

	dec := sample.NewDecoder(bufio.NewReaderSize(in, 1<<16))
	start := time.Now()
	var buf []byte

	for {
		if err := ctx.Err(); err != nil {
			return c, err
		}

		rec, flags, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return c, fmt.Errorf("read %s: record %d: %w", cfg.In, c.Total+1, err)
		}
		c.Total++

		if flags.Invalid {
			c.Invalid++
			continue
		}
		if !flags.OneKingEach {
			c.MissingKings++
			continue
		}

		if len(rec.Pieces) <= cfg.MaxPieces {
			board, err := cfg.Engine.Build(rec.Pieces, rec.WhiteToMove)
			if err != nil {
				// The flags vouched for the record, so this is a bug.
				return c, fmt.Errorf("record %d: %w", c.Total, err)
			}
			if res, err := cfg.Table.Probe(ctx, board.FEN()); err != nil {
				c.Misses++
			} else {
				rec.Result = res
				rec.Score = res.Score(cfg.ScoreScale)
				c.Rescored++
			}
		}

		buf, err = sample.AppendEncode(buf[:0], rec)
		if err != nil {
			return c, fmt.Errorf("record %d: %w", c.Total, err)
		}
		if _, err := out.Write(buf); err != nil {
			return c, fmt.Errorf("write %s: %w", cfg.Out, err)
		}
		c.Written++

		if cfg.ProgressEvery > 0 && c.Written%cfg.ProgressEvery == 0 {
			cfg.Logger.Info().
				Uint64("written", c.Written).
				Uint64("rescored", c.Rescored).
				Uint64("misses", c.Misses).
				Float64("records_per_sec", float64(c.Total)/time.Since(start).Seconds()).
				Msg("rescore progress")
		}
	}

	if err := out.Close(); err != nil {
		return c, fmt.Errorf("close %s: %w", cfg.Out, err)
	}
	return c, nil
}
