package yamltok

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Writer consumes token events and emits YAML documents to its sink.
// Instances come from a Factory and are not safe for concurrent use.
//
// A document is buffered as it is built and emitted when EndDocument is
// called, so style features apply to the whole document at once.
type Writer struct {
	ctxt     *IOContext
	sink     io.Writer // text sink, possibly a charset transformer
	raw      io.Writer // original handle, closed per context/features
	features featureSet
	version  *Version
	indent   int

	enc      *yaml.Encoder
	stack    []*yaml.Node
	anchors  map[string]*yaml.Node
	docCount int
	closed   bool
}

func newWriter(ctxt *IOContext, sink, raw io.Writer, features featureSet, version *Version, indent int) *Writer {
	return &Writer{
		ctxt:     ctxt,
		sink:     sink,
		raw:      raw,
		features: features,
		version:  version,
		indent:   indent,
	}
}

// Context returns the operation context this writer was constructed with.
func (w *Writer) Context() *IOContext { return w.ctxt }

// BeginDocument starts a new document. Documents do not nest.
func (w *Writer) BeginDocument() error {
	if w.closed {
		return errWriterClosed
	}
	if len(w.stack) > 0 {
		return &WriteStateError{Op: "BeginDocument", Reason: "previous document still open"}
	}
	w.stack = append(w.stack, &yaml.Node{Kind: yaml.DocumentNode})
	w.anchors = make(map[string]*yaml.Node)
	return nil
}

// EndDocument closes the current document and emits it.
func (w *Writer) EndDocument() error {
	if w.closed {
		return errWriterClosed
	}
	if len(w.stack) == 0 {
		return &WriteStateError{Op: "EndDocument", Reason: "no open document"}
	}
	if len(w.stack) > 1 {
		return &WriteStateError{Op: "EndDocument", Reason: "unclosed mapping or sequence"}
	}
	doc := w.stack[0]
	w.stack = w.stack[:0]
	if len(doc.Content) == 0 {
		doc.Content = []*yaml.Node{{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}}
	}
	return w.emit(doc)
}

// BeginMapping opens a mapping. Children must alternate key, value.
func (w *Writer) BeginMapping() error {
	return w.beginCollection(yaml.MappingNode, Token{})
}

// EndMapping closes the innermost open mapping.
func (w *Writer) EndMapping() error {
	n, err := w.endCollection(yaml.MappingNode, "EndMapping")
	if err != nil {
		return err
	}
	if len(n.Content)%2 != 0 {
		return &WriteStateError{Op: "EndMapping", Reason: "mapping ends after a key with no value"}
	}
	return nil
}

// BeginSequence opens a sequence.
func (w *Writer) BeginSequence() error {
	return w.beginCollection(yaml.SequenceNode, Token{})
}

// EndSequence closes the innermost open sequence.
func (w *Writer) EndSequence() error {
	_, err := w.endCollection(yaml.SequenceNode, "EndSequence")
	return err
}

// WriteScalar writes a plain scalar. Its type is resolved implicitly from
// the value, so WriteScalar("12") emits an integer; use WriteToken with an
// explicit Tag to pin the type.
func (w *Writer) WriteScalar(value string) error {
	return w.writeScalar(Token{Kind: KindScalar, Value: value})
}

// WriteAlias writes a reference to a node previously written with a
// non-empty Anchor in the current document.
func (w *Writer) WriteAlias(name string) error {
	if w.closed {
		return errWriterClosed
	}
	target, ok := w.anchors[name]
	if !ok {
		return &WriteStateError{Op: "WriteAlias", Reason: fmt.Sprintf("no anchor %q in the current document", name)}
	}
	return w.attach(&yaml.Node{Kind: yaml.AliasNode, Value: name, Alias: target})
}

// WriteToken replays one token event, so a Reader can be piped straight
// into a Writer.
func (w *Writer) WriteToken(t Token) error {
	switch t.Kind {
	case KindDocumentStart:
		return w.BeginDocument()
	case KindDocumentEnd:
		return w.EndDocument()
	case KindMappingStart:
		return w.beginCollection(yaml.MappingNode, t)
	case KindMappingEnd:
		return w.EndMapping()
	case KindSequenceStart:
		return w.beginCollection(yaml.SequenceNode, t)
	case KindSequenceEnd:
		return w.EndSequence()
	case KindScalar:
		return w.writeScalar(t)
	case KindAlias:
		return w.WriteAlias(t.Value)
	}
	return &WriteStateError{Op: "WriteToken", Reason: fmt.Sprintf("unknown token kind %v", t.Kind)}
}

func (w *Writer) writeScalar(t Token) error {
	if w.closed {
		return errWriterClosed
	}
	return w.attach(&yaml.Node{
		Kind:   yaml.ScalarNode,
		Value:  t.Value,
		Tag:    t.Tag,
		Anchor: t.Anchor,
	})
}

func (w *Writer) beginCollection(kind yaml.Kind, t Token) error {
	if w.closed {
		return errWriterClosed
	}
	n := &yaml.Node{Kind: kind, Tag: t.Tag, Anchor: t.Anchor}
	if err := w.attach(n); err != nil {
		return err
	}
	w.stack = append(w.stack, n)
	return nil
}

func (w *Writer) endCollection(kind yaml.Kind, op string) (*yaml.Node, error) {
	if w.closed {
		return nil, errWriterClosed
	}
	if len(w.stack) < 2 {
		return nil, &WriteStateError{Op: op, Reason: "no open collection"}
	}
	n := w.stack[len(w.stack)-1]
	if n.Kind != kind {
		return nil, &WriteStateError{Op: op, Reason: "innermost open collection has a different kind"}
	}
	w.stack = w.stack[:len(w.stack)-1]
	return n, nil
}

// attach places n under the innermost open node.
func (w *Writer) attach(n *yaml.Node) error {
	if len(w.stack) == 0 {
		return &WriteStateError{Op: "write", Reason: "no open document"}
	}
	parent := w.stack[len(w.stack)-1]
	if parent.Kind == yaml.DocumentNode && len(parent.Content) > 0 {
		return &WriteStateError{Op: "write", Reason: "document already has a root value"}
	}
	parent.Content = append(parent.Content, n)
	if n.Anchor != "" {
		w.anchors[n.Anchor] = n
	}
	return nil
}

func (w *Writer) emit(doc *yaml.Node) error {
	if w.enc == nil {
		if w.version != nil {
			if _, err := fmt.Fprintf(w.sink, "%%YAML %s\n", w.version); err != nil {
				return err
			}
		}
		// The encoder separates later documents with "---" on its own;
		// only the first document needs the explicit marker written.
		if w.version != nil || w.features.has(int(WriteDocStartMarker)) {
			if _, err := io.WriteString(w.sink, "---\n"); err != nil {
				return err
			}
		}
		w.enc = yaml.NewEncoder(w.sink)
		w.enc.SetIndent(w.indent)
	}
	w.applyStyles(doc)
	if err := w.enc.Encode(doc); err != nil {
		return err
	}
	if w.features.has(int(WriteDocEndMarker)) {
		if _, err := io.WriteString(w.sink, "...\n"); err != nil {
			return err
		}
	}
	w.docCount++
	return nil
}

// applyStyles walks the finished document applying the style features
// captured at construction.
func (w *Writer) applyStyles(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode {
		switch {
		case w.features.has(int(LiteralBlockStyle)) && strings.Contains(n.Value, "\n"):
			n.Style = yaml.LiteralStyle
		case w.features.has(int(AlwaysQuoteStrings)) && isStringNode(n):
			n.Style = yaml.DoubleQuotedStyle
		}
	}
	for _, c := range n.Content {
		w.applyStyles(c)
	}
}

// isStringNode reports whether a scalar resolves to a string. Untagged
// values are resolved the way the engine would resolve them when plain, so
// quoting never retypes numbers, booleans or nulls.
func isStringNode(n *yaml.Node) bool {
	switch n.Tag {
	case "!!str":
		return true
	case "":
	default:
		return false
	}
	if n.Value == "" {
		return false
	}
	var resolved yaml.Node
	if err := yaml.Unmarshal([]byte(n.Value), &resolved); err != nil {
		return true
	}
	root := &resolved
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) != 1 {
			return true
		}
		root = root.Content[0]
	}
	return root.Kind != yaml.ScalarNode || root.Tag == "!!str"
}

// Close flushes buffered output and releases the writer. The raw sink is
// closed when the operation context owns it or AutoCloseTarget is
// enabled.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	var firstErr error
	if len(w.stack) > 0 {
		firstErr = &WriteStateError{Op: "Close", Reason: "document still open"}
	}
	if w.enc != nil {
		if err := w.enc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if w.sink != w.raw {
		// A charset transformer must be closed to flush its tail.
		if c, ok := w.sink.(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	if w.ctxt.ResourceManaged() || w.features.has(int(AutoCloseTarget)) {
		if c, ok := w.raw.(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
