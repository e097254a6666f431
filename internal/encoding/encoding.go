// Package encoding resolves raw byte sources and sinks into UTF-8 text.
// The default path uses a specialized UTF-8 reader that strips the byte
// order mark, validates the stream, and can read in-memory regions without
// copying; declared non-default charsets fall back to the generic codecs
// from golang.org/x/text.
package encoding

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidUTF8 reports a byte sequence that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 byte sequence")

// UnsupportedError reports a declared charset that could not be resolved
// to a codec.
type UnsupportedError struct {
	Name string
	Err  error
}

func (e *UnsupportedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported encoding %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("unsupported encoding %q", e.Name)
}

func (e *UnsupportedError) Unwrap() error { return e.Err }

// IsDefault reports whether name declares the default encoding (or no
// encoding at all).
func IsDefault(name string) bool {
	switch strings.ToUpper(name) {
	case "", "UTF-8", "UTF8":
		return true
	}
	return false
}

var utf8BOM = [3]byte{0xEF, 0xBB, 0xBF}

const (
	readBufSize = 4096

	// maxEmptyReads caps consecutive zero-byte, nil-error reads from a
	// misbehaving source, mirroring the io package's progress guard.
	maxEmptyReads = 100
)

// UTF8Reader is the specialized decoder for the default encoding. It
// strips a leading byte order mark, validates the byte stream as UTF-8,
// and, when configured to, closes the underlying source once the stream is
// exhausted or the reader is closed. A reader over an in-memory region
// serves the region in place without copying.
type UTF8Reader struct {
	src    io.Reader // nil in region mode
	buf    []byte
	pos    int
	end    int
	valid  int // buf[pos:valid] is validated and ready to serve
	direct bool // region mode: buf is the caller's data

	autoClose  bool
	bomChecked bool
	srcEOF     bool
	srcClosed  bool
	closed     bool
	emptyReads int
}

// NewUTF8Reader decodes src as UTF-8. When autoClose is set, the source is
// closed once the stream is exhausted or the reader is closed.
func NewUTF8Reader(src io.Reader, autoClose bool) *UTF8Reader {
	return &UTF8Reader{src: src, buf: make([]byte, readBufSize), autoClose: autoClose}
}

// NewUTF8ReaderBytes decodes the given region in place, without copying.
// Callers slice the buffer first when only part of it holds the document.
func NewUTF8ReaderBytes(data []byte) *UTF8Reader {
	return &UTF8Reader{buf: data, end: len(data), direct: true, srcEOF: true}
}

func (r *UTF8Reader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, errors.New("read from closed reader")
	}
	if len(p) == 0 {
		return 0, nil
	}
	for {
		if !r.bomChecked {
			if err := r.skipBOM(); err != nil {
				return 0, err
			}
		}
		if r.valid > r.pos {
			// Serving the validated watermark keeps short destination
			// buffers from splitting a rune and re-validating from its
			// continuation bytes.
			n := copy(p, r.buf[r.pos:r.valid])
			r.pos += n
			return n, nil
		}
		n, err := validPrefix(r.buf[r.pos:r.end], r.srcEOF)
		if n > 0 {
			r.valid = r.pos + n
			continue
		}
		if err != nil {
			return 0, err
		}
		if r.srcEOF {
			return 0, r.finish()
		}
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
}

// skipBOM buffers enough of the stream to decide whether it starts with
// the UTF-8 byte order mark and, if so, consumes it.
func (r *UTF8Reader) skipBOM() error {
	for r.end-r.pos < len(utf8BOM) && !r.srcEOF {
		if err := r.fill(); err != nil {
			return err
		}
	}
	r.bomChecked = true
	if r.end-r.pos >= len(utf8BOM) &&
		r.buf[r.pos] == utf8BOM[0] &&
		r.buf[r.pos+1] == utf8BOM[1] &&
		r.buf[r.pos+2] == utf8BOM[2] {
		r.pos += len(utf8BOM)
	}
	return nil
}

// fill compacts any unread tail to the front of the buffer and reads more
// bytes from the source.
func (r *UTF8Reader) fill() error {
	if r.direct || r.srcEOF {
		return nil
	}
	if r.pos > 0 {
		copy(r.buf, r.buf[r.pos:r.end])
		r.end -= r.pos
		r.pos = 0
		r.valid = 0
	}
	if r.end == len(r.buf) {
		// Buffer full of an unfinished sequence longer than any rune.
		return ErrInvalidUTF8
	}
	n, err := r.src.Read(r.buf[r.end:])
	r.end += n
	if err == io.EOF {
		r.srcEOF = true
		return nil
	}
	if err != nil {
		return err
	}
	if n == 0 {
		r.emptyReads++
		if r.emptyReads >= maxEmptyReads {
			return io.ErrNoProgress
		}
	} else {
		r.emptyReads = 0
	}
	return nil
}

// finish is called once the stream is exhausted. It closes the source when
// configured to and reports io.EOF.
func (r *UTF8Reader) finish() error {
	if err := r.closeSource(); err != nil {
		return err
	}
	return io.EOF
}

// Close releases the reader, closing the underlying source when the reader
// was configured to auto-close it.
func (r *UTF8Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.closeSource()
}

func (r *UTF8Reader) closeSource() error {
	if r.srcClosed || !r.autoClose {
		return nil
	}
	r.srcClosed = true
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// validPrefix returns the length of the longest prefix of b made of
// complete valid UTF-8 runes. An incomplete rune at the end of b stops the
// scan when more input may follow, and is an error at end of input.
func validPrefix(b []byte, atEOF bool) (int, error) {
	n := 0
	for n < len(b) {
		if b[n] < utf8.RuneSelf {
			n++
			continue
		}
		r, size := utf8.DecodeRune(b[n:])
		if r == utf8.RuneError && size == 1 {
			if !atEOF && !utf8.FullRune(b[n:]) {
				break
			}
			return n, ErrInvalidUTF8
		}
		n += size
	}
	return n, nil
}

// NewCharsetReader resolves name through the IANA registry and layers its
// decoder over src, producing UTF-8 output. A byte order mark in the input
// overrides the declared encoding, matching common practice for
// UTF-16/UTF-8 marked streams. When autoClose is set, the source is closed
// with the returned reader.
func NewCharsetReader(src io.Reader, name string, autoClose bool) (io.ReadCloser, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, &UnsupportedError{Name: name, Err: err}
	}
	return &charsetReader{
		Reader:    transform.NewReader(src, unicode.BOMOverride(enc.NewDecoder())),
		src:       src,
		autoClose: autoClose,
	}, nil
}

// charsetReader ties the source's lifetime to the decoding layer, so the
// auto-close decision reaches declared-charset streams the same way the
// default path's UTF8Reader carries it.
type charsetReader struct {
	io.Reader
	src       io.Reader
	autoClose bool
	closed    bool
}

func (r *charsetReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if !r.autoClose {
		return nil
	}
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// NewCharsetWriter resolves name through the IANA registry and layers its
// encoder over dst. The returned writer must be closed to flush.
func NewCharsetWriter(dst io.Writer, name string) (io.WriteCloser, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, &UnsupportedError{Name: name, Err: err}
	}
	return transform.NewWriter(dst, enc.NewEncoder()), nil
}

// RuneStreamReader re-encodes an already-decoded rune stream as UTF-8
// bytes, for handing text sources to byte-oriented consumers.
type RuneStreamReader struct {
	src     io.RuneReader
	pending []byte
	scratch [utf8.UTFMax]byte
}

// NewRuneStreamReader returns a reader over src.
func NewRuneStreamReader(src io.RuneReader) *RuneStreamReader {
	return &RuneStreamReader{src: src}
}

func (r *RuneStreamReader) Read(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		if len(r.pending) > 0 {
			n := copy(p[total:], r.pending)
			r.pending = r.pending[n:]
			total += n
			continue
		}
		ch, _, err := r.src.ReadRune()
		if err != nil {
			if total > 0 && err == io.EOF {
				return total, nil
			}
			return total, err
		}
		n := utf8.EncodeRune(r.scratch[:], ch)
		r.pending = r.scratch[:n]
	}
	return total, nil
}
