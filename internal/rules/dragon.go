package rules

import (
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"

	"samplegen/internal/sample"
)

// DragonEngine answers rules queries with the dragontoothmg move
// generator. Boards are built from rendered FEN strings; the underlying
// generator state is materialized lazily, only when a query needs it, so
// notation-only uses never run move generation.
type DragonEngine struct{}

// NewDragonEngine returns the production rules engine.
func NewDragonEngine() *DragonEngine {
	return &DragonEngine{}
}

type dragonBoard struct {
	pieces      []sample.Piece
	whiteToMove bool
	fen         string
	eng         *dragontoothmg.Board
}

func (b *dragonBoard) FEN() string       { return b.fen }
func (b *dragonBoard) WhiteToMove() bool { return b.whiteToMove }

func (b *dragonBoard) Pieces() []sample.Piece {
	out := make([]sample.Piece, len(b.pieces))
	copy(out, b.pieces)
	return out
}

func (b *dragonBoard) Key() uint64 {
	return b.engine().Hash()
}

func (b *dragonBoard) engine() *dragontoothmg.Board {
	if b.eng == nil {
		eb := dragontoothmg.ParseFen(b.fen)
		b.eng = &eb
	}
	return b.eng
}

// Build constructs a board from the placement. Placements that the record
// format can express but a board cannot hold (bad code, bad square,
// doubly-occupied square) are rejected.
func (e *DragonEngine) Build(pieces []sample.Piece, whiteToMove bool) (Board, error) {
	var seen uint64
	for _, p := range pieces {
		if !p.Code.Valid() {
			return nil, fmt.Errorf("piece code %d out of range", p.Code)
		}
		if p.Square > 63 {
			return nil, fmt.Errorf("square %d out of range", p.Square)
		}
		bit := uint64(1) << p.Square
		if seen&bit != 0 {
			return nil, fmt.Errorf("square %d occupied twice", p.Square)
		}
		seen |= bit
	}
	own := make([]sample.Piece, len(pieces))
	copy(own, pieces)
	return &dragonBoard{
		pieces:      own,
		whiteToMove: whiteToMove,
		fen:         renderFEN(own, whiteToMove),
	}, nil
}

// ParseFEN builds a board from FEN text. Castling, en-passant and move
// counter fields are accepted but ignored.
func (e *DragonEngine) ParseFEN(fen string) (Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, fmt.Errorf("fen %q: want at least placement and side to move", fen)
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen %q: %d ranks", fen, len(ranks))
	}
	var pieces []sample.Piece
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			code, ok := sample.PieceFromSymbol(ch)
			if !ok {
				return nil, fmt.Errorf("fen %q: bad piece letter %q", fen, ch)
			}
			if file > 7 {
				return nil, fmt.Errorf("fen %q: rank %d overflows", fen, rank+1)
			}
			pieces = append(pieces, sample.Piece{Code: code, Square: uint8(rank*8 + file)})
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("fen %q: rank %d has %d files", fen, rank+1, file)
		}
	}

	var whiteToMove bool
	switch fields[1] {
	case "w":
		whiteToMove = true
	case "b":
		whiteToMove = false
	default:
		return nil, fmt.Errorf("fen %q: bad side to move %q", fen, fields[1])
	}

	return e.Build(pieces, whiteToMove)
}

// Legal checks static placement legality. See Engine.Legal.
func (e *DragonEngine) Legal(b Board) bool {
	var white, black, whitePawns, blackPawns, whiteKings, blackKings int
	for _, p := range b.Pieces() {
		if p.Code.White() {
			white++
		} else {
			black++
		}
		switch p.Code {
		case sample.WhitePawn:
			whitePawns++
		case sample.BlackPawn:
			blackPawns++
		case sample.WhiteKing:
			whiteKings++
		case sample.BlackKing:
			blackKings++
		}
		if p.Code.Pawn() && (p.Square < 8 || p.Square > 55) {
			return false
		}
	}
	return white <= 16 && black <= 16 &&
		whitePawns <= 8 && blackPawns <= 8 &&
		whiteKings == 1 && blackKings == 1
}

// InCheck asks the move generator whether the given color's king is
// attacked. The generator answers for its side to move, so the query flips
// the side, asks, and restores it.
func (e *DragonEngine) InCheck(b Board, white bool) bool {
	eng := b.(*dragonBoard).engine()
	saved := eng.Wtomove
	eng.Wtomove = white
	inCheck := eng.OurKingInCheck()
	eng.Wtomove = saved
	return inCheck
}

// renderFEN writes the six-field FEN for a placement: no castling rights,
// no en-passant target, zeroed counters.
func renderFEN(pieces []sample.Piece, whiteToMove bool) string {
	var board [64]byte
	for _, p := range pieces {
		board[p.Square] = p.Code.Symbol()
	}
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			ch := board[rank*8+file]
			if ch == 0 {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(ch)
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	if whiteToMove {
		sb.WriteString(" w - - 0 1")
	} else {
		sb.WriteString(" b - - 0 1")
	}
	return sb.String()
}
