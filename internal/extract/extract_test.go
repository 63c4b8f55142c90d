package extract_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"samplegen/internal/extract"
	"samplegen/internal/sample"
	"samplegen/internal/zio"
)

const wonGame = `[Event "Test"]
[Site "?"]
[Date "2024.01.01"]
[Round "1"]
[White "Alpha"]
[Black "Beta"]
[WhiteElo "2500"]
[BlackElo "2400"]
[Result "1-0"]

1. e4 e5 2. Nf3 1-0
`

const drawnGame = `[Event "Test"]
[Site "?"]
[Date "2024.01.01"]
[Round "2"]
[White "Gamma"]
[Black "Delta"]
[WhiteElo "2450"]
[BlackElo "2480"]
[Result "1/2-1/2"]

1. d4 d5 1/2-1/2
`

const lowRatedGame = `[Event "Test"]
[Site "?"]
[Date "2024.01.01"]
[Round "3"]
[White "Eps"]
[Black "Zeta"]
[WhiteElo "1600"]
[BlackElo "2450"]
[Result "0-1"]

1. c4 c5 0-1
`

const unfinishedGame = `[Event "Test"]
[Site "?"]
[Date "2024.01.01"]
[Round "4"]
[White "Eta"]
[Black "Theta"]
[WhiteElo "2700"]
[BlackElo "2650"]
[Result "*"]

1. g3 *
`

func writePGN(t *testing.T, games ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "games.pgn")
	var data []byte
	for _, g := range games {
		data = append(data, g...)
		data = append(data, '\n')
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func decodeAll(t *testing.T, path string) []sample.Record {
	t.Helper()
	r, err := zio.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	var recs []sample.Record
	dec := sample.NewDecoder(r)
	for {
		rec, flags, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return recs
		}
		if err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		if flags.Invalid || !flags.OneKingEach {
			t.Fatalf("bad flags %+v in extract output", flags)
		}
		recs = append(recs, rec)
	}
}

func TestRunResultFollowsSideToMove(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.bin")
	c, err := extract.Run(context.Background(), extract.Config{
		PGN:    writePGN(t, wonGame),
		Out:    out,
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Games != 1 || c.Skipped != 0 || c.Records != 3 {
		t.Fatalf("counters %+v", c)
	}

	recs := decodeAll(t, out)
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	// White won, so records alternate win/loss with the side to move.
	wants := []struct {
		whiteToMove bool
		result      sample.Result
		score       int16
	}{
		{true, sample.Win, 1024},
		{false, sample.Loss, -1024},
		{true, sample.Win, 1024},
	}
	for i, want := range wants {
		got := recs[i]
		if got.WhiteToMove != want.whiteToMove || got.Result != want.result || got.Score != want.score {
			t.Errorf("record %d: stm=%v result=%v score=%d, want %+v",
				i, got.WhiteToMove, got.Result, got.Score, want)
		}
		// No captures in this opening.
		if len(got.Pieces) != 32 {
			t.Errorf("record %d has %d pieces, want 32", i, len(got.Pieces))
		}
	}
}

func TestRunDrawLabels(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.bin")
	c, err := extract.Run(context.Background(), extract.Config{
		PGN:    writePGN(t, drawnGame),
		Out:    out,
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Records != 2 {
		t.Fatalf("counters %+v", c)
	}
	for i, rec := range decodeAll(t, out) {
		if rec.Result != sample.Draw || rec.Score != 0 {
			t.Errorf("record %d labels %d/%v, want 0/draw", i, rec.Score, rec.Result)
		}
	}
}

func TestRunSkipsByRatingAndResult(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.bin")
	c, err := extract.Run(context.Background(), extract.Config{
		PGN:       writePGN(t, wonGame, lowRatedGame, unfinishedGame),
		Out:       out,
		RatingMin: 2000,
		Logger:    zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Games != 1 || c.Skipped != 2 || c.Records != 3 {
		t.Errorf("counters %+v", c)
	}
}

func TestRunMinPly(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.bin")
	c, err := extract.Run(context.Background(), extract.Config{
		PGN:    writePGN(t, wonGame),
		Out:    out,
		MinPly: 2,
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Records != 1 {
		t.Fatalf("counters %+v", c)
	}

	recs := decodeAll(t, out)
	// Only the position after 1. e4 e5 makes the cut.
	if len(recs) != 1 || !recs[0].WhiteToMove {
		t.Errorf("records %+v", recs)
	}
}

func TestRunMaxGames(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.bin")
	c, err := extract.Run(context.Background(), extract.Config{
		PGN:      writePGN(t, wonGame, drawnGame),
		Out:      out,
		MaxGames: 1,
		Logger:   zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Games != 1 || c.Records != 3 {
		t.Errorf("counters %+v", c)
	}
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := extract.Run(context.Background(), extract.Config{
		PGN:    filepath.Join(dir, "nope.pgn"),
		Out:    filepath.Join(dir, "out.bin"),
		Logger: zerolog.Nop(),
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want not-exist", err)
	}
}
