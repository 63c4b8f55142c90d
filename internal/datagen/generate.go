package datagen

import (
	"fmt"
	"math/rand"

	"samplegen/internal/sample"
)

// piecePool holds the non-king codes a candidate draws from: four of
// each kind per color, so a draw can never exceed the per-kind material
// that fits a legal placement.
var piecePool = buildPool()

func buildPool() []sample.PieceCode {
	kinds := []sample.PieceCode{
		sample.WhitePawn,
		sample.WhiteKnight,
		sample.WhiteBishop,
		sample.WhiteRook,
		sample.WhiteQueen,
	}
	pool := make([]sample.PieceCode, 0, 8*len(kinds))
	for _, k := range kinds {
		for i := 0; i < 4; i++ {
			pool = append(pool, k, k+sample.BlackPawn)
		}
	}
	return pool
}

// Generator draws random piece placements with a fixed total piece
// count. Both kings are always present; the remaining codes come from
// piecePool and squares are drawn without replacement. Not safe for
// concurrent use.
type Generator struct {
	rng     *rand.Rand
	pieces  int
	codes   []sample.PieceCode
	squares [64]uint8
}

// NewGenerator returns a generator for positions of the given total
// piece count, kings included.
func NewGenerator(pieces int, seed int64) (*Generator, error) {
	if pieces < sample.MinPieces || pieces > sample.MaxPieces {
		return nil, fmt.Errorf("piece count %d out of range [%d, %d]", pieces, sample.MinPieces, sample.MaxPieces)
	}
	g := &Generator{
		rng:    rand.New(rand.NewSource(seed)),
		pieces: pieces,
		codes:  make([]sample.PieceCode, len(piecePool)),
	}
	copy(g.codes, piecePool)
	for i := range g.squares {
		g.squares[i] = uint8(i)
	}
	return g, nil
}

// Candidate draws one placement and a uniform side to move. ok is false
// when the draw puts two same-color pawns on one file; such draws are
// discarded whole and the caller samples again. Candidates are raw:
// pawns may sit on back ranks and kings may be in check, which later
// validation handles.
func (g *Generator) Candidate() (pieces []sample.Piece, whiteToMove, ok bool) {
	n := g.pieces

	// Partial Fisher-Yates shuffles: after these loops the first n
	// squares and the first n-2 codes are this draw. The scratch arrays
	// keep their full contents, so no reset is needed between draws.
	for i := 0; i < n; i++ {
		j := i + g.rng.Intn(64-i)
		g.squares[i], g.squares[j] = g.squares[j], g.squares[i]
	}
	for i := 0; i < n-2; i++ {
		j := i + g.rng.Intn(len(g.codes)-i)
		g.codes[i], g.codes[j] = g.codes[j], g.codes[i]
	}

	// Kings take the first two squares, the drawn codes the rest.
	// A same-color pawn pair on one file spoils the whole draw.
	var whiteFiles, blackFiles uint8
	for i := 0; i < n-2; i++ {
		c := g.codes[i]
		if !c.Pawn() {
			continue
		}
		bit := uint8(1) << (g.squares[i+2] & 7)
		if c.White() {
			if whiteFiles&bit != 0 {
				return nil, false, false
			}
			whiteFiles |= bit
		} else {
			if blackFiles&bit != 0 {
				return nil, false, false
			}
			blackFiles |= bit
		}
	}

	pieces = make([]sample.Piece, n)
	pieces[0] = sample.Piece{Code: sample.WhiteKing, Square: g.squares[0]}
	pieces[1] = sample.Piece{Code: sample.BlackKing, Square: g.squares[1]}
	for i := 0; i < n-2; i++ {
		pieces[i+2] = sample.Piece{Code: g.codes[i], Square: g.squares[i+2]}
	}
	return pieces, g.rng.Intn(2) == 0, true
}
