package yamltok_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tokfmt/yamltok"
)

func TestDetect(t *testing.T) {
	testCases := []struct {
		name     string
		input    []byte
		expected yamltok.MatchStrength
	}{
		{
			name:     "empty input",
			input:    nil,
			expected: yamltok.Inconclusive,
		},
		{
			name:     "bare start marker",
			input:    []byte("---"),
			expected: yamltok.FullMatch,
		},
		{
			name:     "start marker with document",
			input:    []byte("---\nname: x\n"),
			expected: yamltok.FullMatch,
		},
		{
			name:     "BOM then start marker",
			input:    []byte{0xEF, 0xBB, 0xBF, '-', '-', '-'},
			expected: yamltok.FullMatch,
		},
		{
			name:     "BOM alone",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: yamltok.Inconclusive,
		},
		{
			name:     "broken BOM second byte",
			input:    []byte{0xEF, 0x00, 0xBF},
			expected: yamltok.NoMatch,
		},
		{
			name:     "broken BOM third byte",
			input:    []byte{0xEF, 0xBB, 0x00},
			expected: yamltok.NoMatch,
		},
		{
			name:     "leading space before marker",
			input:    []byte(" ---"),
			expected: yamltok.Inconclusive,
		},
		{
			name:     "no marker at all",
			input:    []byte("name: x\n"),
			expected: yamltok.Inconclusive,
		},
		{
			name:     "partial marker, exhausted",
			input:    []byte("--"),
			expected: yamltok.Inconclusive,
		},
		{
			name:     "dash then other byte",
			input:    []byte("-x"),
			expected: yamltok.Inconclusive,
		},
		{
			name:     "BOM then partial marker",
			input:    []byte{0xEF, 0xBB, 0xBF, '-', '-'},
			expected: yamltok.Inconclusive,
		},
		{
			name:     "BOM then plain document",
			input:    []byte{0xEF, 0xBB, 0xBF, 'a', ':', ' ', '1'},
			expected: yamltok.Inconclusive,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, yamltok.Detect(tc.input))
		})
	}
}

// A definite verdict on a short window must survive any longer window with
// the same prefix; only Inconclusive may change.
func TestDetect_MonotonicInLookahead(t *testing.T) {
	inputs := [][]byte{
		[]byte("---\nname: x\n"),
		{0xEF, 0xBB, 0xBF, '-', '-', '-', '\n', 'a', ':', ' ', '1'},
		{0xEF, 0xBB, 0x00, 'j', 'u', 'n', 'k'},
		[]byte(" ---\nname: x\n"),
	}
	for _, full := range inputs {
		for n := 0; n < len(full); n++ {
			short := yamltok.Detect(full[:n])
			if short == yamltok.Inconclusive {
				continue
			}
			for m := n + 1; m <= len(full); m++ {
				require.Equal(t, short, yamltok.Detect(full[:m]),
					"verdict changed between window %d and %d", n, m)
			}
		}
	}
}

func TestDetectFormat_WindowAgnostic(t *testing.T) {
	// The accessor bounds the window; DetectFormat must never read past
	// what HasMoreBytes granted.
	acc := yamltok.NewBytesAccessor([]byte("---\nrest is never touched"))
	require.Equal(t, yamltok.FullMatch, yamltok.DetectFormat(acc))
}

func TestFormatName(t *testing.T) {
	require.Equal(t, "YAML", yamltok.FormatName)
}

func TestMatchStrength_String(t *testing.T) {
	require.Equal(t, "no-match", yamltok.NoMatch.String())
	require.Equal(t, "inconclusive", yamltok.Inconclusive.String())
	require.Equal(t, "full-match", yamltok.FullMatch.String())
}
