package yamltok

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// InputDecorator transforms the raw input handle before encoding
// resolution. Implementations must not change who is responsible for
// closing the original handle; the IOContext's ownership flag stays as the
// factory set it.
type InputDecorator interface {
	// DecorateReader wraps or replaces the raw byte stream. Returning r
	// unchanged keeps the stream as is.
	DecorateReader(ctxt *IOContext, r io.Reader) (io.Reader, error)

	// DecorateBytes may replace an in-memory region with a stream of its
	// own. Returning a nil reader declines the transformation, keeping
	// the zero-copy region path.
	DecorateBytes(ctxt *IOContext, data []byte) (io.Reader, error)
}

// OutputDecorator transforms the raw output sink before the encoder layer
// is applied.
type OutputDecorator interface {
	// DecorateWriter wraps or replaces the raw byte sink. Returning w
	// unchanged keeps the sink as is.
	DecorateWriter(ctxt *IOContext, w io.Writer) (io.Writer, error)
}

const (
	gzipMagic1 = 0x1F
	gzipMagic2 = 0x8B
)

// GzipInputDecorator transparently decompresses gzip-compressed input. It
// declines when the magic bytes are absent, so plain input passes through
// untouched.
type GzipInputDecorator struct{}

func (GzipInputDecorator) DecorateReader(ctxt *IOContext, r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil || magic[0] != gzipMagic1 || magic[1] != gzipMagic2 {
		// Too short or not gzip; the buffered view replays everything.
		return br, nil
	}
	return gzip.NewReader(br)
}

func (GzipInputDecorator) DecorateBytes(ctxt *IOContext, data []byte) (io.Reader, error) {
	if len(data) < 2 || data[0] != gzipMagic1 || data[1] != gzipMagic2 {
		return nil, nil
	}
	return gzip.NewReader(bytes.NewReader(data))
}
