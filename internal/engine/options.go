package engine

// Default configuration values.
const (
	DefaultTabSize       = 4
	DefaultLineSeparator = "\n"
	DefaultMaxSnapshots  = 100
	DefaultMaxUndo       = 1000
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithTabSize sets the tab size used for display columns.
func WithTabSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.tabSize = size
		}
	}
}

// WithLineSeparator sets the separator used to join lines on output.
// Input is always split on "\r\n", "\r" and "\n".
func WithLineSeparator(sep string) Option {
	return func(e *Engine) {
		if sep != "" {
			e.lineSep = sep
		}
	}
}

// WithMaxSnapshots sets the maximum number of retained snapshots.
// The oldest snapshot is dropped when the limit is reached.
func WithMaxSnapshots(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxSnapshots = max
		}
	}
}

// WithMaxUndo sets the maximum number of undo entries.
func WithMaxUndo(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndo = max
		}
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
