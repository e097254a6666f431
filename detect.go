package yamltok

import "fmt"

// FormatName identifies this adapter to format-dispatch layers.
const FormatName = "YAML"

// MatchStrength is the confidence of one format detection pass over a
// bounded lookahead.
type MatchStrength int

const (
	// NoMatch means the input cannot begin a YAML document.
	NoMatch MatchStrength = iota

	// Inconclusive means the lookahead ran out, or held nothing decisive,
	// before a verdict was possible. Callers may retry with a larger
	// window or try another format.
	Inconclusive

	// FullMatch means the input begins with the "---" document start
	// marker (optionally after a UTF-8 byte order mark).
	FullMatch
)

func (m MatchStrength) String() string {
	switch m {
	case NoMatch:
		return "no-match"
	case Inconclusive:
		return "inconclusive"
	case FullMatch:
		return "full-match"
	}
	return fmt.Sprintf("MatchStrength(%d)", int(m))
}

// InputAccessor walks a bounded lookahead prefix of a candidate input. The
// window size is the caller's policy; DetectFormat is correct for any
// finite window.
type InputAccessor interface {
	// HasMoreBytes reports whether at least one more byte is available.
	HasMoreBytes() bool
	// NextByte consumes and returns the next byte. Only valid after
	// HasMoreBytes reported true.
	NextByte() byte
}

type bytesAccessor struct {
	data []byte
	pos  int
}

// NewBytesAccessor returns an InputAccessor over data.
func NewBytesAccessor(data []byte) InputAccessor {
	return &bytesAccessor{data: data}
}

func (a *bytesAccessor) HasMoreBytes() bool { return a.pos < len(a.data) }

func (a *bytesAccessor) NextByte() byte {
	b := a.data[a.pos]
	a.pos++
	return b
}

const (
	utf8BOM1 = 0xEF
	utf8BOM2 = 0xBB
	utf8BOM3 = 0xBF
)

// DetectFormat reports whether the lookahead plausibly begins a YAML
// document. The only strong signal YAML offers is the optional "---"
// marker, so the verdict is FullMatch when the marker is present, NoMatch
// only for a byte sequence that starts like a UTF-8 byte order mark and
// then breaks it, and Inconclusive everywhere else, including lookahead
// exhaustion mid-check.
func DetectFormat(acc InputAccessor) MatchStrength {
	if !acc.HasMoreBytes() {
		return Inconclusive
	}
	b := acc.NextByte()
	if b == utf8BOM1 {
		if !acc.HasMoreBytes() {
			return Inconclusive
		}
		if acc.NextByte() != utf8BOM2 {
			return NoMatch
		}
		if !acc.HasMoreBytes() {
			return Inconclusive
		}
		if acc.NextByte() != utf8BOM3 {
			return NoMatch
		}
		if !acc.HasMoreBytes() {
			return Inconclusive
		}
		b = acc.NextByte()
	}
	// Leading whitespace before the marker is not valid YAML, so it is
	// deliberately not skipped here.
	if b == '-' && acc.HasMoreBytes() && acc.NextByte() == '-' &&
		acc.HasMoreBytes() && acc.NextByte() == '-' {
		return FullMatch
	}
	return Inconclusive
}

// Detect sniffs data directly, treating the whole slice as the lookahead
// window.
func Detect(data []byte) MatchStrength {
	return DetectFormat(NewBytesAccessor(data))
}
