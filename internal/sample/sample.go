// Package sample defines the training-sample record model and its binary
// codec. A record is a piece placement, the side to move, and two labels
// (engine score and game result from the side to move's perspective).
package sample

import "sort"

// PieceCode identifies a colored piece. White pieces are 0-5, black 6-11.
type PieceCode uint8

const (
	WhitePawn PieceCode = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing

	NumPieceCodes = 12
)

var pieceSymbols = [NumPieceCodes]byte{'P', 'N', 'B', 'R', 'Q', 'K', 'p', 'n', 'b', 'r', 'q', 'k'}

// Valid returns true if the code is one of the twelve defined pieces.
func (c PieceCode) Valid() bool {
	return c < NumPieceCodes
}

// White returns true for white piece codes.
func (c PieceCode) White() bool {
	return c < BlackPawn
}

// Pawn returns true for either color's pawn.
func (c PieceCode) Pawn() bool {
	return c == WhitePawn || c == BlackPawn
}

// Symbol returns the FEN letter for the code (uppercase = white),
// or '?' for an undefined code.
func (c PieceCode) Symbol() byte {
	if !c.Valid() {
		return '?'
	}
	return pieceSymbols[c]
}

// PieceFromSymbol maps a FEN letter back to its piece code.
func PieceFromSymbol(ch byte) (PieceCode, bool) {
	for i, s := range pieceSymbols {
		if s == ch {
			return PieceCode(i), true
		}
	}
	return 0, false
}

// Result is a game outcome from the side to move's perspective.
type Result int8

const (
	Loss Result = 0
	Draw Result = 1
	Win  Result = 2
)

// Valid returns true if the result is one of the three defined outcomes.
func (r Result) Valid() bool {
	return r == Loss || r == Draw || r == Win
}

// Char returns the text-format result letter: 'l', 'd' or 'w'.
func (r Result) Char() byte {
	switch r {
	case Loss:
		return 'l'
	case Win:
		return 'w'
	default:
		return 'd'
	}
}

// Flip returns the result seen from the other side.
func (r Result) Flip() Result {
	switch r {
	case Win:
		return Loss
	case Loss:
		return Win
	default:
		return r
	}
}

// Score maps the result to a score label: +scale for a win, -scale for
// a loss, 0 for a draw.
func (r Result) Score(scale int16) int16 {
	switch r {
	case Win:
		return scale
	case Loss:
		return -scale
	default:
		return 0
	}
}

// Piece is a piece code on a square (0 = a1 ... 63 = h8).
type Piece struct {
	Code   PieceCode
	Square uint8
}

// Record is one training sample.
type Record struct {
	WhiteToMove bool
	Pieces      []Piece
	Score       int16
	Result      Result
}

// Flags carries the semantic checks computed for a decoded record.
// Semantic problems never fail a decode; callers filter on these.
type Flags struct {
	// Invalid is set for an out-of-range piece code or square, a duplicate
	// square, or a result discriminant outside {0,1,2}.
	Invalid bool
	// OneKingEach is set when the placement has exactly one king per color.
	OneKingEach bool
}

// SortCanonical sorts pieces into the canonical encode order:
// ascending piece code, ties broken by ascending square.
func SortCanonical(pieces []Piece) {
	sort.Slice(pieces, func(i, j int) bool {
		if pieces[i].Code != pieces[j].Code {
			return pieces[i].Code < pieces[j].Code
		}
		return pieces[i].Square < pieces[j].Square
	})
}

// Validate computes the semantic flags for a record. King counting is by
// piece code alone, so a record can be Invalid and still report kings.
func (r Record) Validate() Flags {
	var seen uint64
	whiteKings, blackKings := 0, 0
	invalid := !r.Result.Valid()
	for _, p := range r.Pieces {
		switch p.Code {
		case WhiteKing:
			whiteKings++
		case BlackKing:
			blackKings++
		}
		if !p.Code.Valid() || p.Square > 63 {
			invalid = true
			continue
		}
		bit := uint64(1) << p.Square
		if seen&bit != 0 {
			invalid = true
		}
		seen |= bit
	}
	return Flags{
		Invalid:     invalid,
		OneKingEach: whiteKings == 1 && blackKings == 1,
	}
}
