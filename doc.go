/*
Package yamltok builds token readers and writers for YAML documents.

A Factory turns any supported input handle (literal text, byte slices,
byte streams, already-decoded rune streams, files, or URLs) into a Reader
producing a format-agnostic stream of structural events (document, mapping
and sequence boundaries, scalars, aliases), and any output sink into a
Writer consuming the same events. The factory resolves character encodings
(defaulting to UTF-8 with a specialized decoder), applies optional
stream-decorator hooks, and captures the active feature flags into each
constructed reader and writer.

Basic reading:

	f, err := yamltok.New()
	if err != nil {
		// handle error
	}
	r, err := f.ReaderForString("---\nname: yamltok\n")
	if err != nil {
		// handle error
	}
	defer r.Close()
	for {
		tok, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// handle error
		}
		// use tok
	}

Writing mirrors reading: a Writer accepts Begin/End calls and scalar
events, or replays tokens directly via WriteToken, so a Reader can be
piped straight into a Writer to re-emit a document with different style
settings.

Behavior is controlled by two independent feature sets, one per direction
(see ReadFeature and WriteFeature), toggled on the factory before it is
shared. Format detection for dispatch layers that juggle several candidate
formats is available through Detect and DetectFormat, which report a
confidence level rather than a boolean: YAML requires no start marker, so
its absence is never proof of a non-match.
*/
package yamltok
