package sample

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Wire layout per record (little-endian, back-to-back, no padding):
//
//	[u8 pieceCount] [u8 sideToMove] [pieceCount x (u8 code, u8 square)] [i16 score] [i8 result]
//
// sideToMove 1 means white; every other value decodes as black and is
// normalized to 0 on re-encode.
const (
	HeaderSize = 2 // piece count + side to move
	TailSize   = 3 // score + result
	MinPieces  = 2
	MaxPieces  = 32
)

// EncodedSize returns the on-disk size of a record with n pieces.
func EncodedSize(n int) int {
	return HeaderSize + 2*n + TailSize
}

// ErrPieceCount is returned by Encode for a record whose piece count the
// wire format cannot represent.
var ErrPieceCount = errors.New("piece count out of range")

// DecodeErrorKind classifies structural decode failures.
type DecodeErrorKind uint8

const (
	KindTruncatedHeader DecodeErrorKind = iota
	KindBadPieceCount
	KindTruncatedPieceList
	KindTruncatedTail
)

func (k DecodeErrorKind) String() string {
	switch k {
	case KindTruncatedHeader:
		return "truncated header"
	case KindBadPieceCount:
		return "piece count out of range"
	case KindTruncatedPieceList:
		return "truncated piece list"
	case KindTruncatedTail:
		return "truncated score/result tail"
	default:
		return "unknown"
	}
}

// DecodeError is a structural stream failure. Record boundaries cannot be
// recovered past one, so it is always fatal to the stream.
type DecodeError struct {
	Kind   DecodeErrorKind
	Offset int64 // byte offset of the record that failed
	Count  int   // offending piece count, set for KindBadPieceCount
}

func (e *DecodeError) Error() string {
	if e.Kind == KindBadPieceCount {
		return fmt.Sprintf("%s (%d) at offset %d", e.Kind, e.Count, e.Offset)
	}
	return fmt.Sprintf("%s at offset %d", e.Kind, e.Offset)
}

// Encode serializes a record, sorting pieces into canonical order.
// No semantic validation happens here; only the piece count is enforced.
func Encode(r Record) ([]byte, error) {
	return AppendEncode(nil, r)
}

// AppendEncode appends the encoded record to dst and returns the result.
func AppendEncode(dst []byte, r Record) ([]byte, error) {
	n := len(r.Pieces)
	if n < MinPieces || n > MaxPieces {
		return nil, fmt.Errorf("%w: %d", ErrPieceCount, n)
	}
	pieces := make([]Piece, n)
	copy(pieces, r.Pieces)
	SortCanonical(pieces)

	stm := byte(0)
	if r.WhiteToMove {
		stm = 1
	}
	dst = append(dst, byte(n), stm)
	for _, p := range pieces {
		dst = append(dst, byte(p.Code), p.Square)
	}
	dst = binary.LittleEndian.AppendUint16(dst, uint16(r.Score))
	dst = append(dst, byte(r.Result))
	return dst, nil
}

// Decoder reads back-to-back records from a stream.
type Decoder struct {
	r      io.Reader
	offset int64
	buf    [2 * MaxPieces]byte
}

// NewDecoder returns a decoder reading from r. Callers that need
// buffering should pass a buffered reader.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Offset returns the stream offset of the next record boundary.
func (d *Decoder) Offset() int64 {
	return d.offset
}

// Next decodes one record and its semantic flags. It returns io.EOF at a
// clean record boundary. A *DecodeError means the stream is structurally
// broken at the reported offset; any other error is an I/O failure.
func (d *Decoder) Next() (Record, Flags, error) {
	start := d.offset

	hdr := d.buf[:HeaderSize]
	n, err := io.ReadFull(d.r, hdr)
	d.offset += int64(n)
	if err == io.EOF {
		return Record{}, Flags{}, io.EOF
	}
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, Flags{}, &DecodeError{Kind: KindTruncatedHeader, Offset: start}
		}
		return Record{}, Flags{}, fmt.Errorf("read record header: %w", err)
	}

	count := int(hdr[0])
	rec := Record{WhiteToMove: hdr[1] == 1}
	if count < MinPieces || count > MaxPieces {
		return Record{}, Flags{}, &DecodeError{Kind: KindBadPieceCount, Offset: start, Count: count}
	}

	body := d.buf[:2*count]
	n, err = io.ReadFull(d.r, body)
	d.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, Flags{}, &DecodeError{Kind: KindTruncatedPieceList, Offset: start}
		}
		return Record{}, Flags{}, fmt.Errorf("read piece list: %w", err)
	}
	rec.Pieces = make([]Piece, count)
	for i := range rec.Pieces {
		rec.Pieces[i] = Piece{Code: PieceCode(body[2*i]), Square: body[2*i+1]}
	}

	tail := d.buf[:TailSize]
	n, err = io.ReadFull(d.r, tail)
	d.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, Flags{}, &DecodeError{Kind: KindTruncatedTail, Offset: start}
		}
		return Record{}, Flags{}, fmt.Errorf("read record tail: %w", err)
	}
	rec.Score = int16(binary.LittleEndian.Uint16(tail[0:2]))
	rec.Result = Result(int8(tail[2]))

	return rec, rec.Validate(), nil
}
