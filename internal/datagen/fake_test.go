package datagen_test

import (
	"context"
	"errors"
	"fmt"

	"samplegen/internal/rules"
	"samplegen/internal/sample"
)

// fakeEngine implements rules.Engine with overridable answers, so tests
// control exactly which candidates survive. Nil hooks mean "everything
// is legal, nobody is in check".
type fakeEngine struct {
	legal   func(b rules.Board) bool
	inCheck func(b rules.Board, white bool) bool
	key     func(b rules.Board) uint64
}

func (e *fakeEngine) Build(pieces []sample.Piece, whiteToMove bool) (rules.Board, error) {
	own := make([]sample.Piece, len(pieces))
	copy(own, pieces)
	return &fakeBoard{eng: e, pieces: own, whiteToMove: whiteToMove}, nil
}

func (e *fakeEngine) ParseFEN(string) (rules.Board, error) {
	return nil, errors.New("fake engine does not parse")
}

func (e *fakeEngine) Legal(b rules.Board) bool {
	if e.legal == nil {
		return true
	}
	return e.legal(b)
}

func (e *fakeEngine) InCheck(b rules.Board, white bool) bool {
	if e.inCheck == nil {
		return false
	}
	return e.inCheck(b, white)
}

type fakeBoard struct {
	eng         *fakeEngine
	pieces      []sample.Piece
	whiteToMove bool
}

func (b *fakeBoard) FEN() string {
	return fmt.Sprintf("fake-%016x %t", b.Key(), b.whiteToMove)
}

func (b *fakeBoard) WhiteToMove() bool { return b.whiteToMove }

func (b *fakeBoard) Pieces() []sample.Piece { return b.pieces }

// Key mixes the placement order-independently so identical placements
// drawn in different orders still collide.
func (b *fakeBoard) Key() uint64 {
	if b.eng.key != nil {
		return b.eng.key(b)
	}
	var k uint64
	for _, p := range b.pieces {
		k ^= (uint64(p.Code)<<6 | uint64(p.Square)) * 0x9e3779b97f4a7c15
	}
	if b.whiteToMove {
		k ^= 0x2545f4914f6cdd1d
	}
	return k
}

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

// kingsOnly is the minimal placement every fake-backed test can build.
func kingsOnly() []sample.Piece {
	return []sample.Piece{
		{Code: sample.WhiteKing, Square: 4},
		{Code: sample.BlackKing, Square: 60},
	}
}
