package encoding

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUTF8Reader_StripsBOM(t *testing.T) {
	testCases := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"BOM then text", append([]byte{0xEF, 0xBB, 0xBF}, []byte("a: 1")...), "a: 1"},
		{"no BOM", []byte("a: 1"), "a: 1"},
		{"BOM only", []byte{0xEF, 0xBB, 0xBF}, ""},
		{"partial BOM is content", []byte{0xEF, 0xBB, 0xBF}[:2], string([]byte{0xEF, 0xBB})},
	}

	for _, tc := range testCases {
		t.Run(tc.name+" stream", func(t *testing.T) {
			r := NewUTF8Reader(bytes.NewReader(tc.input), false)
			got, err := io.ReadAll(r)
			if tc.name == "partial BOM is content" {
				// Two BOM lead bytes alone are an invalid sequence.
				require.ErrorIs(t, err, ErrInvalidUTF8)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, string(got))
		})
		t.Run(tc.name+" region", func(t *testing.T) {
			r := NewUTF8ReaderBytes(tc.input)
			got, err := io.ReadAll(r)
			if tc.name == "partial BOM is content" {
				require.ErrorIs(t, err, ErrInvalidUTF8)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, string(got))
		})
	}
}

func TestUTF8Reader_InvalidSequence(t *testing.T) {
	r := NewUTF8ReaderBytes([]byte{'o', 'k', 0xFF, 'x'})
	_, err := io.ReadAll(r)
	require.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestUTF8Reader_TruncatedRuneAtEOF(t *testing.T) {
	// The first two bytes of a three-byte rune, then nothing.
	r := NewUTF8ReaderBytes([]byte{'a', 0xE2, 0x82})
	_, err := io.ReadAll(r)
	require.ErrorIs(t, err, ErrInvalidUTF8)
}

// A multi-byte rune split across the internal buffer boundary must come
// through intact.
func TestUTF8Reader_RuneAcrossFills(t *testing.T) {
	pad := strings.Repeat("x", readBufSize-1)
	input := pad + "é" // é straddles the first fill
	r := NewUTF8Reader(strings.NewReader(input), false)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, input, string(got))
}

type closableSource struct {
	io.Reader
	closed bool
}

func (c *closableSource) Close() error {
	c.closed = true
	return nil
}

func TestUTF8Reader_AutoClose(t *testing.T) {
	t.Run("closes at exhaustion", func(t *testing.T) {
		src := &closableSource{Reader: strings.NewReader("abc")}
		r := NewUTF8Reader(src, true)
		_, err := io.ReadAll(r)
		require.NoError(t, err)
		require.True(t, src.closed)
	})

	t.Run("closes on Close", func(t *testing.T) {
		src := &closableSource{Reader: strings.NewReader("abc")}
		r := NewUTF8Reader(src, true)
		require.NoError(t, r.Close())
		require.True(t, src.closed)
	})

	t.Run("borrowed source stays open", func(t *testing.T) {
		src := &closableSource{Reader: strings.NewReader("abc")}
		r := NewUTF8Reader(src, false)
		_, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		require.False(t, src.closed)
	})
}

// A destination shorter than one rune must never split validation: the
// bytes already vetted are served across calls, not re-checked from a
// continuation byte.
func TestUTF8Reader_SmallDestinationMultibyte(t *testing.T) {
	input := "a: " + strings.Repeat("é", 600)
	r := NewUTF8Reader(strings.NewReader(input), false)
	var out []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	require.Equal(t, input, string(out))
}

type noProgressSource struct{}

func (noProgressSource) Read(p []byte) (int, error) { return 0, nil }

func TestUTF8Reader_NoProgressSource(t *testing.T) {
	r := NewUTF8Reader(noProgressSource{}, false)
	_, err := io.ReadAll(r)
	require.ErrorIs(t, err, io.ErrNoProgress)
}

func TestUTF8Reader_SmallDestination(t *testing.T) {
	r := NewUTF8ReaderBytes([]byte("héllo"))
	var out []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	require.Equal(t, "héllo", string(out))
}

func TestIsDefault(t *testing.T) {
	require.True(t, IsDefault(""))
	require.True(t, IsDefault("UTF-8"))
	require.True(t, IsDefault("utf-8"))
	require.True(t, IsDefault("utf8"))
	require.False(t, IsDefault("ISO-8859-1"))
	require.False(t, IsDefault("UTF-16"))
}

func TestNewCharsetReader(t *testing.T) {
	t.Run("latin-1", func(t *testing.T) {
		r, err := NewCharsetReader(bytes.NewReader([]byte{'c', 'a', 'f', 0xE9}), "ISO-8859-1", false)
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, "café", string(got))
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := NewCharsetReader(strings.NewReader(""), "not-a-charset", false)
		var ue *UnsupportedError
		require.ErrorAs(t, err, &ue)
		require.Equal(t, "not-a-charset", ue.Name)
	})

	t.Run("closes owned source", func(t *testing.T) {
		src := &closableSource{Reader: strings.NewReader("abc")}
		r, err := NewCharsetReader(src, "ISO-8859-1", true)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		require.True(t, src.closed)
	})

	t.Run("borrowed source stays open", func(t *testing.T) {
		src := &closableSource{Reader: strings.NewReader("abc")}
		r, err := NewCharsetReader(src, "ISO-8859-1", false)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		require.False(t, src.closed)
	})
}

func TestNewCharsetWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewCharsetWriter(&buf, "ISO-8859-1")
	require.NoError(t, err)
	_, err = io.WriteString(w, "café")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.Equal(t, []byte{'c', 'a', 'f', 0xE9}, buf.Bytes())
}

func TestRuneStreamReader(t *testing.T) {
	src := strings.NewReader("héllo ∀x")
	r := NewRuneStreamReader(src)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "héllo ∀x", string(got))
}

func TestRuneStreamReader_SmallDestination(t *testing.T) {
	r := NewRuneStreamReader(strings.NewReader("é"))
	buf := make([]byte, 1)

	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	first := buf[0]

	n, err = r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "é", string([]byte{first, buf[0]}))

	_, err = r.Read(buf)
	require.Equal(t, io.EOF, err)
}
