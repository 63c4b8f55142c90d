// Package convert reprocesses binary sample streams: rendering them as
// text training data and rescoring their labels from a tablebase.
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
	"samplegen/internal/zio"
)

// Config configures one bin-to-txt conversion.
type Config struct {
	In  string // binary input; a .zst suffix decompresses transparently
	Out string // text output; a .zst suffix compresses transparently

	Limit        uint64 // stop after this many written lines (0 = all)
	Strict       bool   // abort on the first invalid record instead of skipping it
	AllowNoKings bool   // also write records lacking exactly one king per side
	Updates      int    // progress events spread over the input (0 = none)

	Engine rules.Engine // defaults to rules.NewDragonEngine()
	Logger zerolog.Logger
}

// Counters tallies one conversion.
type Counters struct {
	Total        uint64 // records decoded
	Written      uint64 // lines written
	Invalid      uint64 // skipped for invalid fields
	MissingKings uint64 // skipped for king count
}

// InvalidRecordError aborts a strict conversion. Ordinal is the 1-based
// position of the offending record in the input stream.
type InvalidRecordError struct {
	Ordinal uint64
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record #%d", e.Ordinal)
}

// Run streams records from cfg.In to "<fen>|<score>|<result>" lines in
// cfg.Out. Invalid and kingless records are counted and skipped unless
// configured otherwise; structural stream damage is fatal. The counters
// are returned even on error, so partial runs stay accounted for.
func Run(ctx context.Context, cfg Config) (Counters, error) {
	var c Counters
	if cfg.Engine == nil {
		cfg.Engine = rules.NewDragonEngine()
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

	// Progress thresholds track physical bytes consumed, so compressed
	// inputs report against their on-disk size. The step rounds up, which
	// caps the event count at cfg.Updates when the size divides unevenly.
	var step, next int64
	if cfg.Updates > 0 {
		step = (in.Size() + int64(cfg.Updates) - 1) / int64(cfg.Updates)
		if step < 1 {
			step = 1
		}
		next = step
	}

	dec := sample.NewDecoder(bufio.NewReaderSize(in, 1<<16))
	start := time.Now()

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
			if cfg.Strict {
				return c, &InvalidRecordError{Ordinal: c.Total}
			}
			continue
		}
		if !flags.OneKingEach && !cfg.AllowNoKings {
			c.MissingKings++
			continue
		}

		board, err := cfg.Engine.Build(rec.Pieces, rec.WhiteToMove)
		if err != nil {
			// The flags vouched for the record, so this is a bug.
			return c, fmt.Errorf("record %d: %w", c.Total, err)
		}
		if _, err := fmt.Fprintf(out, "%s|%d|%c\n", board.FEN(), rec.Score, rec.Result.Char()); err != nil {
			return c, fmt.Errorf("write %s: %w", cfg.Out, err)
		}
		c.Written++

		if cfg.Limit > 0 && c.Written >= cfg.Limit {
			break
		}
		if step > 0 {
			if consumed := in.Consumed(); consumed >= next {
				cfg.Logger.Info().
					Int64("bytes", consumed).
					Int64("size", in.Size()).
					Uint64("records", c.Total).
					Uint64("written", c.Written).
					Uint64("invalid", c.Invalid).
					Uint64("missing_kings", c.MissingKings).
					Float64("records_per_sec", float64(c.Total)/time.Since(start).Seconds()).
					Msg("convert progress")
				next = (consumed/step + 1) * step
			}
		}
	}

	if err := out.Close(); err != nil {
		return c, fmt.Errorf("close %s: %w", cfg.Out, err)
	}
	return c, nil
}
