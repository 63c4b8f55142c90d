// Package extract replays archived games into training samples: every
// position a kept game visits becomes one record labeled with the game
// outcome.
package extract

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/freeeve/pgn/v3"
	"github.com/rs/zerolog"

	"samplegen/internal/rules"
	"samplegen/internal/sample"
	"samplegen/internal/zio"
)

// Config configures one extraction run.
type Config struct {
	PGN string // input games, plain or .pgn.zst
	Out string // output records; a .zst suffix compresses

	RatingMin  int    // drop games where either player is rated below this (0 = keep all)
	MinPly     int    // skip each game's first positions
	MaxGames   uint64 // stop after this many kept games (0 = all)
	ScoreScale int16  // |score| for decisive games (default 1024)

	Engine rules.Engine // defaults to rules.NewDragonEngine()
	Logger zerolog.Logger
}

// Counters tallies one extraction run.
type Counters struct {
	Games   uint64 // games replayed into records
	Skipped uint64 // games dropped for rating or an unknown result
	Records uint64 // positions written
}

// Run streams games from cfg.PGN and writes one binary record per
// position from cfg.MinPly onward, labeled with the game result from the
// side to move's perspective. The counters are returned even on error.
func Run(ctx context.Context, cfg Config) (Counters, error) {
	var c Counters

	if cfg.Engine == nil {
		cfg.Engine = rules.NewDragonEngine()
	}
	if cfg.ScoreScale == 0 {
		cfg.ScoreScale = 1024
	}

	// The parser reports a missing file through Err only after the game
	// loop, so surface it before any output is created.
	if _, err := os.Stat(cfg.PGN); err != nil {
		return c, err
	}
	out, err := zio.Create(cfg.Out)
	if err != nil {
		return c, err
	}
	defer out.Close()

	parser := pgn.Games(cfg.PGN)
	start := time.Now()
	lastLog := start
	var buf []byte

	for game := range parser.Games {
		select {
		case <-ctx.Done():
			parser.Stop()
			return c, ctx.Err()
		default:
		}
		if cfg.MaxGames > 0 && c.Games >= cfg.MaxGames {
			parser.Stop()
			break
		}

		whiteResult, known := resultFromTag(game.Tags["Result"])
		if !known {
			c.Skipped++
			continue
		}
		if cfg.RatingMin > 0 &&
			(parseRating(game.Tags["WhiteElo"]) < cfg.RatingMin ||
				parseRating(game.Tags["BlackElo"]) < cfg.RatingMin) {
			c.Skipped++
			continue
		}

		pos := pgn.NewStartingPosition()
		for ply, mv := range game.Moves {
			if ply >= cfg.MinPly {
				board, err := cfg.Engine.ParseFEN(pos.ToFEN())
				if err != nil {
					return c, fmt.Errorf("game %d ply %d: %w", c.Games+1, ply, err)
				}
				result := whiteResult
				if !board.WhiteToMove() {
					result = result.Flip()
				}
				rec := sample.Record{
					WhiteToMove: board.WhiteToMove(),
					Pieces:      board.Pieces(),
					Score:       result.Score(cfg.ScoreScale),
					Result:      result,
				}
				buf, err = sample.AppendEncode(buf[:0], rec)
				if err != nil {
					return c, fmt.Errorf("game %d ply %d: %w", c.Games+1, ply, err)
				}
				if _, err := out.Write(buf); err != nil {
					return c, fmt.Errorf("write %s: %w", cfg.Out, err)
				}
				c.Records++
			}
			// Unplayable move text ends the replay; the positions the
			// game yielded so far stay written.
			if err := pgn.ApplyMove(pos, mv); err != nil {
				break
			}
		}
		c.Games++

		if time.Since(lastLog) > 10*time.Second {
			cfg.Logger.Info().
				Uint64("games", c.Games).
				Uint64("skipped", c.Skipped).
				Uint64("records", c.Records).
				Float64("games_per_sec", float64(c.Games)/time.Since(start).Seconds()).
				Msg("extract progress")
			lastLog = time.Now()
		}
	}

	if err := parser.Err(); err != nil {
		return c, fmt.Errorf("parse %s: %w", cfg.PGN, err)
	}
	if err := out.Close(); err != nil {
		return c, fmt.Errorf("close %s: %w", cfg.Out, err)
	}
	return c, nil
}

// resultFromTag maps a PGN Result tag to white's outcome. Unknown and
// unfinished results report ok false.
func resultFromTag(tag string) (sample.Result, bool) {
	switch tag {
	case "1-0":
		return sample.Win, true
	case "0-1":
		return sample.Loss, true
	case "1/2-1/2":
		return sample.Draw, true
	default:
		return 0, false
	}
}

func parseRating(s string) int {
	if s == "" || s == "?" || s == "-" {
		return 0
	}
	r, _ := strconv.Atoi(s)
	return r
}
