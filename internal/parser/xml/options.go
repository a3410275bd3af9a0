package xmlparser

// Options controls one streaming traversal.
// All fields except RecordTag are optional; zero values pick sensible defaults.
type Options struct {
	// RecordTag is the qualified name of the element delimiting one record.
	RecordTag string

	// Scope, when non-nil, is the qualified tag path bounding the active
	// region. Records are only captured while the open-tag path exactly
	// matches Scope (plus descendants). Nil means the whole document is
	// active from the start.
	Scope []string

	// BufSize is the bufio.Reader size; 0 => 1<<20.
	BufSize int
}
