// Package rules abstracts the chess-rules queries the pipelines need, so
// core logic stays testable with lightweight stand-ins. The production
// implementation wraps the dragontoothmg move generator.
package rules

import "samplegen/internal/sample"

// Board is an immutable position handle produced by an Engine. Boards from
// one engine must not be passed to another.
type Board interface {
	// FEN renders the position: placement, side to move, no castling
	// rights, no en-passant target, zeroed move counters.
	FEN() string
	WhiteToMove() bool
	// Pieces returns the placement as (code, square) pairs.
	Pieces() []sample.Piece
	// Key returns a position key suitable for duplicate detection.
	Key() uint64
}

// Engine builds positions and answers rules queries about them.
type Engine interface {
	// Build constructs a board from an explicit placement. It rejects
	// malformed placements (bad codes, bad squares, occupied squares) but
	// applies no chess legality rules; kingless boards are representable.
	Build(pieces []sample.Piece, whiteToMove bool) (Board, error)
	// ParseFEN is the inverse of Board.FEN. Castling and en-passant
	// fields are ignored.
	ParseFEN(fen string) (Board, error)
	// Legal reports static placement legality: at most 16 pieces and 8
	// pawns per side, exactly one king per side, no pawns on the first or
	// last rank. Check status is not part of placement legality.
	Legal(b Board) bool
	// InCheck reports whether the given color's king is attacked,
	// evaluated as if that color had the move. The stored side to move is
	// unaffected. Only defined for boards accepted by Legal.
	InCheck(b Board, white bool) bool
}
