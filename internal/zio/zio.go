// Package zio opens dataset files with transparent zstd compression,
// keyed off a .zst path suffix.
package zio

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Reader reads a possibly compressed file and tracks how many on-disk
// bytes have been consumed, so callers can report progress against the
// file size even when the payload is compressed.
type Reader struct {
	f    *os.File
	cr   *countingReader
	r    io.Reader
	zr   *zstd.Decoder
	size int64
}

// Open opens path for reading. A .zst suffix selects zstd decompression.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	r := &Reader{f: f, cr: &countingReader{r: f}, size: info.Size()}
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(r.cr, zstd.WithDecoderConcurrency(1))
		if err != nil {
			f.Close()
			return nil, err
		}
		r.zr = zr
		r.r = zr
	} else {
		r.r = r.cr
	}
	return r, nil
}

func (r *Reader) Read(p []byte) (int, error) { return r.r.Read(p) }

// Size returns the on-disk file size in bytes.
func (r *Reader) Size() int64 { return r.size }

// Consumed returns how many on-disk bytes have been read so far. Buffered
// readers stacked on top may pull slightly ahead of what the caller has
// decoded.
func (r *Reader) Consumed() int64 { return r.cr.n }

func (r *Reader) Close() error {
	if r.zr != nil {
		r.zr.Close()
	}
	return r.f.Close()
}

// Writer writes a possibly compressed file through a buffer. Close
// flushes the buffer, finishes the compressed frame, and closes the file.
type Writer struct {
	f      *os.File
	bw     *bufio.Writer
	zw     *zstd.Encoder
	closed bool
}

// Create creates path (and any missing parent directories) for writing.
// A .zst suffix selects zstd compression.
func Create(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &Writer{f: f}
	if strings.HasSuffix(path, ".zst") {
		zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			f.Close()
			return nil, err
		}
		w.zw = zw
		w.bw = bufio.NewWriterSize(zw, 1<<16)
	} else {
		w.bw = bufio.NewWriterSize(f, 1<<16)
	}
	return w, nil
}

func (w *Writer) Write(p []byte) (int, error) { return w.bw.Write(p) }

// Close is a no-op after the first call, so it is safe to defer alongside
// an explicit error-checked Close.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.bw.Flush()
	if w.zw != nil {
		if cerr := w.zw.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	return err
}
