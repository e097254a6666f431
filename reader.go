package yamltok

import (
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// maxAliasDepth bounds alias expansion so malicious anchor chains cannot
// recurse without limit.
const maxAliasDepth = 1000

// Reader produces the token stream for one input. Instances come from a
// Factory and are not safe for concurrent use.
type Reader struct {
	ctxt     *IOContext
	src      io.Reader
	features featureSet

	dec     *yaml.Decoder
	queue   []Token
	qpos    int
	docSeen bool
	closed  bool
}

func newReader(ctxt *IOContext, src io.Reader, features featureSet) *Reader {
	return &Reader{ctxt: ctxt, src: src, features: features}
}

// Context returns the operation context this reader was constructed with.
func (r *Reader) Context() *IOContext { return r.ctxt }

// Next returns the next token. It reports io.EOF once the input is
// exhausted.
func (r *Reader) Next() (Token, error) {
	if r.closed {
		return Token{}, errReaderClosed
	}
	for r.qpos >= len(r.queue) {
		if err := r.nextDocument(); err != nil {
			return Token{}, err
		}
	}
	t := r.queue[r.qpos]
	r.qpos++
	return t, nil
}

// Tokens drains the reader and returns every remaining token.
func (r *Reader) Tokens() ([]Token, error) {
	var out []Token
	for {
		t, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
}

// nextDocument decodes the next document from the input and flattens it
// into the token queue.
func (r *Reader) nextDocument() error {
	if r.dec == nil {
		r.dec = yaml.NewDecoder(r.src)
	}
	var node yaml.Node
	err := r.dec.Decode(&node)
	if err == io.EOF {
		if !r.docSeen && r.features.has(int(EmptyDocumentAsNull)) {
			r.docSeen = true
			r.queue = append(r.queue[:0],
				Token{Kind: KindDocumentStart},
				Token{Kind: KindScalar, Value: "null", Tag: "!!null"},
				Token{Kind: KindDocumentEnd},
			)
			r.qpos = 0
			return nil
		}
		return io.EOF
	}
	if err != nil {
		return &ReadError{Err: err}
	}
	r.docSeen = true
	r.queue = r.queue[:0]
	r.qpos = 0
	r.queue = append(r.queue, Token{Kind: KindDocumentStart, Line: node.Line, Column: node.Column})
	if err := r.flatten(&node, maxAliasDepth); err != nil {
		r.queue = r.queue[:0]
		return err
	}
	r.queue = append(r.queue, Token{Kind: KindDocumentEnd})
	return nil
}

func (r *Reader) flatten(n *yaml.Node, depth int) error {
	if depth <= 0 {
		return &ReadError{Err: errors.New("max alias expansion depth exceeded")}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if err := r.flatten(c, depth); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		r.queue = append(r.queue, Token{
			Kind: KindMappingStart, Tag: n.Tag, Anchor: n.Anchor,
			Line: n.Line, Column: n.Column,
		})
		if !r.features.has(int(AllowDuplicateKeys)) {
			if err := checkDuplicateKeys(n); err != nil {
				return err
			}
		}
		for _, c := range n.Content {
			if err := r.flatten(c, depth); err != nil {
				return err
			}
		}
		r.queue = append(r.queue, Token{Kind: KindMappingEnd})
	case yaml.SequenceNode:
		r.queue = append(r.queue, Token{
			Kind: KindSequenceStart, Tag: n.Tag, Anchor: n.Anchor,
			Line: n.Line, Column: n.Column,
		})
		for _, c := range n.Content {
			if err := r.flatten(c, depth); err != nil {
				return err
			}
		}
		r.queue = append(r.queue, Token{Kind: KindSequenceEnd})
	case yaml.ScalarNode:
		r.queue = append(r.queue, Token{
			Kind: KindScalar, Value: n.Value, Tag: n.Tag, Anchor: n.Anchor,
			Line: n.Line, Column: n.Column,
		})
	case yaml.AliasNode:
		if r.features.has(int(ResolveAliases)) && n.Alias != nil {
			return r.flatten(n.Alias, depth-1)
		}
		r.queue = append(r.queue, Token{
			Kind: KindAlias, Value: n.Value, Line: n.Line, Column: n.Column,
		})
	}
	return nil
}

// checkDuplicateKeys rejects mappings whose scalar keys repeat.
func checkDuplicateKeys(n *yaml.Node) error {
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if key.Kind != yaml.ScalarNode {
			continue
		}
		if seen[key.Value] {
			return &DuplicateKeyError{Key: key.Value, Line: key.Line, Column: key.Column}
		}
		seen[key.Value] = true
	}
	return nil
}

// Close releases the reader. The underlying byte source is closed when the
// operation context owns it or AutoCloseSource demands it; the encoding
// layer constructed by the factory carries that decision.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
