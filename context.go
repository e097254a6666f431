package yamltok

// IOContext tracks the lifetime of the raw resource behind one reader or
// writer. One context is created per create call, handed to the constructed
// instance, and consulted by its Close.
type IOContext struct {
	sourceRef any
	managed   bool
}

func newIOContext(sourceRef any, managed bool) *IOContext {
	return &IOContext{sourceRef: sourceRef, managed: managed}
}

// SourceRef returns the originating handle, for diagnostics only.
func (c *IOContext) SourceRef() any { return c.sourceRef }

// ResourceManaged reports whether the underlying raw resource was opened by
// the factory itself and must be closed when the operation ends. Resources
// supplied already open by the caller are borrowed, not managed.
func (c *IOContext) ResourceManaged() bool { return c.managed }
