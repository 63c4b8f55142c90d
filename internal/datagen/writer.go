package datagen

import (
	"fmt"

	"samplegen/internal/sample"
	"samplegen/internal/zio"
)

// Writer sinks accepted samples in one dataset format.
type Writer interface {
	// Write appends one sample. fen is the rendered position for the
	// text formats; the binary format ignores it.
	Write(fen string, rec sample.Record) error
	Close() error
}

// NewWriter creates the output file, compressing transparently for
// .zst paths, and wraps it in the format's writer.
func NewWriter(path string, format Format) (Writer, error) {
	out, err := zio.Create(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatBin:
		return &binWriter{out: out}, nil
	case FormatTxt:
		return &txtWriter{out: out}, nil
	case FormatEPD:
		return &epdWriter{out: out}, nil
	default:
		out.Close()
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

type binWriter struct {
	out *zio.Writer
	buf []byte
}

func (w *binWriter) Write(_ string, rec sample.Record) error {
	b, err := sample.AppendEncode(w.buf[:0], rec)
	if err != nil {
		return err
	}
	w.buf = b
	_, err = w.out.Write(b)
	return err
}

func (w *binWriter) Close() error { return w.out.Close() }

type txtWriter struct {
	out *zio.Writer
}

func (w *txtWriter) Write(fen string, rec sample.Record) error {
	_, err := fmt.Fprintf(w.out, "%s|%d|%c\n", fen, rec.Score, rec.Result.Char())
	return err
}

func (w *txtWriter) Close() error { return w.out.Close() }

type epdWriter struct {
	out *zio.Writer
}

func (w *epdWriter) Write(fen string, _ sample.Record) error {
	_, err := fmt.Fprintf(w.out, "%s;\n", fen)
	return err
}

func (w *epdWriter) Close() error { return w.out.Close() }
