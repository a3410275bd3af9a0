package xmlparser

import (
	"errors"
	"strings"
)

// ErrMalformed wraps structural XML errors that abort the current document.
// Callers typically log it, abandon the document, and continue with the next
// one in a multi-file run.
var ErrMalformed = errors.New("malformed xml")

// isTruncErr returns true when a tokenization error indicates a truncated or
// partial XML stream. encoding/xml does not expose a sentinel, so we match
// the common message substrings used by its errors. Truncated tails are
// tolerated: records fully closed before the damage are already bound.
func isTruncErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "unexpected EOF") ||
		strings.Contains(s, "XML syntax error")
}
