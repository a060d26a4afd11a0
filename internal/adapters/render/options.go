package render

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithFormat selects FormatTable or FormatJSON. Unknown formats are ignored.
func WithFormat(format string) Option {
	return func(r *Renderer) {
		switch format {
		case FormatTable, FormatJSON:
			r.format = format
		}
	}
}

// WithRunID stamps JSON documents with the run identifier.
func WithRunID(id string) Option {
	return func(r *Renderer) {
		r.runID = id
	}
}
