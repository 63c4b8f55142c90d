package convert_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"samplegen/internal/convert"
	"samplegen/internal/sample"
	"samplegen/internal/tb"
	"samplegen/internal/zio"
)

// fakeTable answers probes from a fixed function and counts calls.
type fakeTable struct {
	probes int
	answer func(fen string) (sample.Result, error)
}

func (t *fakeTable) Probe(_ context.Context, fen string) (sample.Result, error) {
	t.probes++
	if t.answer == nil {
		return sample.Win, nil
	}
	return t.answer(fen)
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
		if flags.Invalid {
			t.Fatalf("invalid record in rescore output")
		}
		recs = append(recs, rec)
	}
}

func TestRescoreOverwritesLabels(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out := filepath.Join(dir, "out.bin")

	var stream []byte
	stream = append(stream, rawRecord(2, 1, kings, 0, 1)...)
	stream = append(stream, rawRecord(2, 0, kings, 333, 2)...)
	writeBin(t, in, stream)

	tbl := &fakeTable{answer: func(string) (sample.Result, error) {
		return sample.Loss, nil
	}}
	c, err := convert.Rescore(context.Background(), convert.RescoreConfig{
		In:     in,
		Out:    out,
		Table:  tbl,
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Total != 2 || c.Written != 2 || c.Rescored != 2 || c.Misses != 0 {
		t.Errorf("counters %+v", c)
	}

	recs := decodeAll(t, out)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	for i, rec := range recs {
		if rec.Result != sample.Loss || rec.Score != -1024 {
			t.Errorf("record %d labels %d/%v, want -1024/loss", i, rec.Score, rec.Result)
		}
	}
	// Placement and side to move survive the rewrite.
	if !recs[0].WhiteToMove || recs[1].WhiteToMove {
		t.Error("side to move changed")
	}
}

func TestRescoreMissKeepsLabels(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out := filepath.Join(dir, "out.bin")
	writeBin(t, in, rawRecord(2, 1, kings, -77, 0))

	tbl := &fakeTable{answer: func(string) (sample.Result, error) {
		return 0, tb.ErrNoResult
	}}
	c, err := convert.Rescore(context.Background(), convert.RescoreConfig{
		In:     in,
		Out:    out,
		Table:  tbl,
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Written != 1 || c.Misses != 1 || c.Rescored != 0 {
		t.Errorf("counters %+v", c)
	}

	recs := decodeAll(t, out)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].Score != -77 || recs[0].Result != sample.Loss {
		t.Errorf("labels %d/%v, want -77/loss", recs[0].Score, recs[0].Result)
	}
}

func TestRescoreProbeCeiling(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out := filepath.Join(dir, "out.bin")

	// Eight pieces is past the default six-piece table.
	big := []byte{1, 8, 1, 9, 1, 10, 1, 11, 1, 12, 1, 13}
	big = append(big, kings...)

	var stream []byte
	stream = append(stream, rawRecord(8, 1, big, 40, 2)...)
	stream = append(stream, rawRecord(2, 1, kings, 0, 1)...)
	writeBin(t, in, stream)

	tbl := &fakeTable{}
	c, err := convert.Rescore(context.Background(), convert.RescoreConfig{
		In:     in,
		Out:    out,
		Table:  tbl,
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.probes != 1 {
		t.Errorf("probes = %d, want 1", tbl.probes)
	}
	if c.Written != 2 || c.Rescored != 1 {
		t.Errorf("counters %+v", c)
	}

	recs := decodeAll(t, out)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	// The oversized record keeps its labels, the probed one is rewritten.
	if recs[0].Score != 40 || recs[0].Result != sample.Win {
		t.Errorf("oversized record labels %d/%v", recs[0].Score, recs[0].Result)
	}
	if recs[1].Score != 1024 || recs[1].Result != sample.Win {
		t.Errorf("probed record labels %d/%v", recs[1].Score, recs[1].Result)
	}
}

func TestRescoreDropsBadRecords(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out := filepath.Join(dir, "out.bin")

	var stream []byte
	// duplicate square
	stream = append(stream, rawRecord(3, 1, append([]byte{4, 4}, kings...), 0, 1)...)
	// kingless
	stream = append(stream, rawRecord(2, 0, []byte{0, 8, 6, 48}, 0, 1)...)
	// clean
	stream = append(stream, rawRecord(2, 1, kings, 0, 1)...)
	writeBin(t, in, stream)

	c, err := convert.Rescore(context.Background(), convert.RescoreConfig{
		In:     in,
		Out:    out,
		Table:  &fakeTable{},
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Total != 3 || c.Written != 1 || c.Invalid != 1 || c.MissingKings != 1 {
		t.Errorf("counters %+v", c)
	}
	if recs := decodeAll(t, out); len(recs) != 1 {
		t.Errorf("got %d records, want 1", len(recs))
	}
}

func TestRescoreScoreScale(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out := filepath.Join(dir, "out.bin")
	writeBin(t, in, rawRecord(2, 1, kings, 0, 1))

	tbl := &fakeTable{answer: func(string) (sample.Result, error) {
		return sample.Loss, nil
	}}
	_, err := convert.Rescore(context.Background(), convert.RescoreConfig{
		In:         in,
		Out:        out,
		Table:      tbl,
		ScoreScale: 512,
		Logger:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}

	recs := decodeAll(t, out)
	if len(recs) != 1 || recs[0].Score != -512 {
		t.Fatalf("records %+v, want one with score -512", recs)
	}
}

func TestRescoreRequiresTable(t *testing.T) {
	_, err := convert.Rescore(context.Background(), convert.RescoreConfig{
		In:     "in.bin",
		Out:    "out.bin",
		Logger: zerolog.Nop(),
	})
	if err == nil {
		t.Fatal("want error without a table")
	}
}
