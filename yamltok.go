package yamltok

// Tokens returns the full token stream for data using a fresh factory
// configured with opts. It is a convenience for one-shot inspection; reuse
// a Factory when processing many inputs.
func Tokens(data []byte, opts ...Option) ([]Token, error) {
	f, err := New(opts...)
	if err != nil {
		return nil, err
	}
	r, err := f.ReaderForBytes(data)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Tokens()
}
