package yamltok

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/tokfmt/yamltok/internal/encoding"
)

// Version is a notation version hint. Writers built from a factory
// configured with WithVersion emit it as a %YAML directive.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

const defaultIndent = 2

// Factory builds token readers and writers over the supported input and
// output shapes. A factory is cheap to create but meant to be reused:
// configure it fully, then share it. Create calls are safe to run
// concurrently; the configuration setters are not, and belong in a
// single-threaded setup phase.
type Factory struct {
	readFeatures  featureSet
	writeFeatures featureSet
	version       *Version
	indent        int

	inputDecorator  InputDecorator
	outputDecorator OutputDecorator
}

// Option configures a Factory.
type Option func(*Factory) error

// WithVersion sets the notation version hint emitted by writers.
func WithVersion(major, minor int) Option {
	return func(f *Factory) error {
		f.version = &Version{Major: major, Minor: minor}
		return nil
	}
}

// WithIndent sets the indentation width used by writers. The width n must
// be a positive integer.
func WithIndent(n int) Option {
	return func(f *Factory) error {
		if n <= 0 {
			return fmt.Errorf("yamltok: indent must be a positive integer")
		}
		f.indent = n
		return nil
	}
}

// WithInputDecorator installs d as the factory's input decorator. At most
// one is active at a time.
func WithInputDecorator(d InputDecorator) Option {
	return func(f *Factory) error {
		f.inputDecorator = d
		return nil
	}
}

// WithOutputDecorator installs d as the factory's output decorator. At
// most one is active at a time.
func WithOutputDecorator(d OutputDecorator) Option {
	return func(f *Factory) error {
		f.outputDecorator = d
		return nil
	}
}

// New returns a Factory carrying the default feature sets.
func New(opts ...Option) (*Factory, error) {
	f := &Factory{
		readFeatures:  defaultReadFeatures,
		writeFeatures: defaultWriteFeatures,
		indent:        defaultIndent,
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Copy returns an independent factory with the same feature sets,
// decorator slots and version hint. The two share no mutable state after
// the call returns.
func (f *Factory) Copy() *Factory {
	cp := *f
	if f.version != nil {
		v := *f.version
		cp.version = &v
	}
	return &cp
}

// ReaderForString builds a reader over literal text. The text is already
// decoded, so encoding resolution is skipped.
func (f *Factory) ReaderForString(s string) (*Reader, error) {
	ctxt := newIOContext(s, true)
	var r io.Reader = strings.NewReader(s)
	if f.inputDecorator != nil {
		dr, err := f.inputDecorator.DecorateReader(ctxt, r)
		if err != nil {
			return nil, err
		}
		r = dr
	}
	return newReader(ctxt, r, f.readFeatures), nil
}

// ReaderForBytes builds a reader over data without copying it. Slice the
// buffer before the call when only part of it holds the document.
func (f *Factory) ReaderForBytes(data []byte) (*Reader, error) {
	ctxt := newIOContext(data, true)
	if f.inputDecorator != nil {
		r, err := f.inputDecorator.DecorateBytes(ctxt, data)
		if err != nil {
			return nil, err
		}
		if r != nil {
			// The decorator materialized a stream; route through the
			// generic byte-stream path instead of the region path.
			text := encoding.NewUTF8Reader(r, f.autoCloseSource(ctxt))
			return newReader(ctxt, text, f.readFeatures), nil
		}
	}
	return newReader(ctxt, encoding.NewUTF8ReaderBytes(data), f.readFeatures), nil
}

// ReaderFor builds a reader over a raw byte stream. The caller keeps
// ownership of r unless AutoCloseSource is enabled.
func (f *Factory) ReaderFor(r io.Reader) (*Reader, error) {
	ctxt := newIOContext(r, false)
	return f.buildByteReader(ctxt, r)
}

// ReaderForEncoding is ReaderFor with the input transcoded from the named
// charset instead of assuming UTF-8.
func (f *Factory) ReaderForEncoding(r io.Reader, charset string) (*Reader, error) {
	ctxt := newIOContext(r, false)
	return f.buildByteReaderEnc(ctxt, r, charset)
}

// ReaderForRunes builds a reader over an already-decoded character
// stream. Encoding resolution is skipped.
func (f *Factory) ReaderForRunes(rr io.RuneReader) (*Reader, error) {
	ctxt := newIOContext(rr, false)
	var r io.Reader = encoding.NewRuneStreamReader(rr)
	if f.inputDecorator != nil {
		dr, err := f.inputDecorator.DecorateReader(ctxt, r)
		if err != nil {
			return nil, err
		}
		r = dr
	}
	return newReader(ctxt, r, f.readFeatures), nil
}

// ReaderForFile opens path and builds a reader over its content. The file
// is owned by the reader and closed with it.
func (f *Factory) ReaderForFile(path string) (*Reader, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	ctxt := newIOContext(path, true)
	rd, err := f.buildByteReader(ctxt, in)
	if err != nil {
		in.Close()
		return nil, err
	}
	return rd, nil
}

// ReaderForURL opens rawURL and builds a reader over its content. file:
// URLs (and scheme-less paths) open the file directly instead of going
// through an HTTP round trip. The resource is owned by the reader and
// closed with it.
func (f *Factory) ReaderForURL(rawURL string) (*Reader, error) {
	in, err := openURL(rawURL)
	if err != nil {
		return nil, err
	}
	ctxt := newIOContext(rawURL, true)
	rd, err := f.buildByteReader(ctxt, in)
	if err != nil {
		in.Close()
		return nil, err
	}
	return rd, nil
}

func openURL(rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("yamltok: invalid URL %q: %w", rawURL, err)
	}
	switch u.Scheme {
	case "", "file":
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		return os.Open(path)
	default:
		resp, err := http.Get(rawURL)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("yamltok: fetching %s: unexpected status %s", rawURL, resp.Status)
		}
		return resp.Body, nil
	}
}

func (f *Factory) buildByteReader(ctxt *IOContext, r io.Reader) (*Reader, error) {
	return f.buildByteReaderEnc(ctxt, r, "")
}

func (f *Factory) buildByteReaderEnc(ctxt *IOContext, r io.Reader, charset string) (*Reader, error) {
	if f.inputDecorator != nil {
		dr, err := f.inputDecorator.DecorateReader(ctxt, r)
		if err != nil {
			return nil, err
		}
		r = dr
	}
	var text io.Reader
	if encoding.IsDefault(charset) {
		text = encoding.NewUTF8Reader(r, f.autoCloseSource(ctxt))
	} else {
		cr, err := encoding.NewCharsetReader(r, charset, f.autoCloseSource(ctxt))
		if err != nil {
			return nil, err
		}
		text = cr
	}
	return newReader(ctxt, text, f.readFeatures), nil
}

func (f *Factory) autoCloseSource(ctxt *IOContext) bool {
	return ctxt.ResourceManaged() || f.ReadEnabled(AutoCloseSource)
}

// WriterFor builds a writer emitting to w. The caller keeps ownership of
// w unless AutoCloseTarget is enabled.
func (f *Factory) WriterFor(w io.Writer) (*Writer, error) {
	ctxt := newIOContext(w, false)
	return f.buildWriter(ctxt, w, "")
}

// WriterForEncoding is WriterFor with the output transcoded to the named
// charset instead of UTF-8.
func (f *Factory) WriterForEncoding(w io.Writer, charset string) (*Writer, error) {
	ctxt := newIOContext(w, false)
	return f.buildWriter(ctxt, w, charset)
}

// WriterForFile creates (or truncates) path and builds a writer emitting
// to it. The file is owned by the writer and closed with it.
func (f *Factory) WriterForFile(path string) (*Writer, error) {
	out, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	ctxt := newIOContext(path, true)
	wr, err := f.buildWriter(ctxt, out, "")
	if err != nil {
		out.Close()
		return nil, err
	}
	return wr, nil
}

func (f *Factory) buildWriter(ctxt *IOContext, w io.Writer, charset string) (*Writer, error) {
	raw := w
	if f.outputDecorator != nil {
		dw, err := f.outputDecorator.DecorateWriter(ctxt, w)
		if err != nil {
			return nil, err
		}
		w = dw
	}
	sink := w
	if !encoding.IsDefault(charset) {
		// The UTF-8 path writes through untransformed: Go text is
		// already UTF-8, which is the whole point of the specialized
		// default encoder.
		cw, err := encoding.NewCharsetWriter(w, charset)
		if err != nil {
			return nil, err
		}
		sink = cw
	}
	return newWriter(ctxt, sink, raw, f.writeFeatures, f.version, f.indent), nil
}
