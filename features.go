package yamltok

// ReadFeature identifies a toggleable capability of readers produced by a
// Factory.
type ReadFeature int

const (
	// AutoCloseSource makes readers close the underlying byte source on
	// Close (and on exhaustion) even when the caller supplied it already
	// open. Enabled by default.
	AutoCloseSource ReadFeature = iota

	// ResolveAliases makes readers replay the anchored node's events in
	// place of each alias. When disabled an alias surfaces as a single
	// KindAlias token. Enabled by default.
	ResolveAliases

	// AllowDuplicateKeys permits mappings that repeat a key. When disabled
	// a duplicate key is a read error. Enabled by default.
	AllowDuplicateKeys

	// EmptyDocumentAsNull makes a reader over empty input yield one
	// document holding a single null scalar instead of ending
	// immediately. Disabled by default.
	EmptyDocumentAsNull

	numReadFeatures = iota
)

func (f ReadFeature) enabledByDefault() bool {
	switch f {
	case AutoCloseSource, ResolveAliases, AllowDuplicateKeys:
		return true
	}
	return false
}

// WriteFeature identifies a toggleable capability of writers produced by a
// Factory.
type WriteFeature int

const (
	// AutoCloseTarget makes writers close the underlying sink on Close
	// even when the caller supplied it already open. Enabled by default.
	AutoCloseTarget WriteFeature = iota

	// WriteDocStartMarker emits the explicit "---" marker before the
	// first document. Enabled by default.
	WriteDocStartMarker

	// WriteDocEndMarker emits the explicit "..." marker after each
	// document. Disabled by default.
	WriteDocEndMarker

	// LiteralBlockStyle emits multiline scalars in literal block style
	// ("|") instead of quoted form. Disabled by default.
	LiteralBlockStyle

	// AlwaysQuoteStrings double-quotes every string scalar, including
	// ones that would be safe in plain style. Disabled by default.
	AlwaysQuoteStrings

	numWriteFeatures = iota
)

func (f WriteFeature) enabledByDefault() bool {
	switch f {
	case AutoCloseTarget, WriteDocStartMarker:
		return true
	}
	return false
}

// featureSet is a fixed-width mask with one bit per feature ordinal. State
// is only ever touched through with/without/has; readers and writers
// capture the mask by value at construction.
type featureSet uint32

func (s featureSet) with(bit int) featureSet    { return s | 1<<bit }
func (s featureSet) without(bit int) featureSet { return s &^ (1 << bit) }
func (s featureSet) has(bit int) bool           { return s&(1<<bit) != 0 }

func collectDefaults(n int, enabled func(int) bool) featureSet {
	var s featureSet
	for i := 0; i < n; i++ {
		if enabled(i) {
			s = s.with(i)
		}
	}
	return s
}

var (
	defaultReadFeatures = collectDefaults(numReadFeatures, func(i int) bool {
		return ReadFeature(i).enabledByDefault()
	})
	defaultWriteFeatures = collectDefaults(numWriteFeatures, func(i int) bool {
		return WriteFeature(i).enabledByDefault()
	})
)

// EnableRead turns a read-side feature on for subsequently created readers.
// Already-constructed readers keep the mask they captured.
func (f *Factory) EnableRead(ft ReadFeature) *Factory {
	f.readFeatures = f.readFeatures.with(int(ft))
	return f
}

// DisableRead turns a read-side feature off.
func (f *Factory) DisableRead(ft ReadFeature) *Factory {
	f.readFeatures = f.readFeatures.without(int(ft))
	return f
}

// ConfigureRead sets a read-side feature to the given state.
func (f *Factory) ConfigureRead(ft ReadFeature, enabled bool) *Factory {
	if enabled {
		return f.EnableRead(ft)
	}
	return f.DisableRead(ft)
}

// ReadEnabled reports whether a read-side feature is currently on.
func (f *Factory) ReadEnabled(ft ReadFeature) bool {
	return f.readFeatures.has(int(ft))
}

// EnableWrite turns a write-side feature on for subsequently created
// writers. Already-constructed writers keep the mask they captured.
func (f *Factory) EnableWrite(ft WriteFeature) *Factory {
	f.writeFeatures = f.writeFeatures.with(int(ft))
	return f
}

// DisableWrite turns a write-side feature off.
func (f *Factory) DisableWrite(ft WriteFeature) *Factory {
	f.writeFeatures = f.writeFeatures.without(int(ft))
	return f
}

// ConfigureWrite sets a write-side feature to the given state.
func (f *Factory) ConfigureWrite(ft WriteFeature, enabled bool) *Factory {
	if enabled {
		return f.EnableWrite(ft)
	}
	return f.DisableWrite(ft)
}

// WriteEnabled reports whether a write-side feature is currently on.
func (f *Factory) WriteEnabled(ft WriteFeature) bool {
	return f.writeFeatures.has(int(ft))
}
