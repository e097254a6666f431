package yamltok

import "fmt"

// Kind classifies a token event in the structural stream.
type Kind int

const (
	// KindDocumentStart opens one document. A stream may hold several.
	KindDocumentStart Kind = iota
	// KindDocumentEnd closes the current document.
	KindDocumentEnd
	// KindMappingStart opens a mapping. Its children alternate key, value.
	KindMappingStart
	// KindMappingEnd closes the current mapping.
	KindMappingEnd
	// KindSequenceStart opens a sequence.
	KindSequenceStart
	// KindSequenceEnd closes the current sequence.
	KindSequenceEnd
	// KindScalar carries one scalar value.
	KindScalar
	// KindAlias references a previously anchored node by name. Readers
	// only emit it when ResolveAliases is disabled.
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindDocumentStart:
		return "DocumentStart"
	case KindDocumentEnd:
		return "DocumentEnd"
	case KindMappingStart:
		return "MappingStart"
	case KindMappingEnd:
		return "MappingEnd"
	case KindSequenceStart:
		return "SequenceStart"
	case KindSequenceEnd:
		return "SequenceEnd"
	case KindScalar:
		return "Scalar"
	case KindAlias:
		return "Alias"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one structural event produced by a Reader or consumed by a
// Writer.
type Token struct {
	Kind Kind

	// Value holds the scalar text for KindScalar, or the referenced
	// anchor name for KindAlias.
	Value string

	// Tag is the resolved node tag ("!!str", "!!int", ...). Writers treat
	// an empty tag as "resolve implicitly from the value".
	Tag string

	// Anchor names this node so later aliases can reference it.
	Anchor string

	// Line and Column locate the event in the source, 1-based. Zero on
	// tokens built by hand.
	Line   int
	Column int
}
