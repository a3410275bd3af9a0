package xmlparser

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// charsetReader decodes non-UTF-8 documents declared via the XML prolog
// (encoding="..."). Labels are resolved through the WHATWG index, which
// covers the encodings seen in practice (latin-1 variants, windows-125x,
// shift_jis, ...).
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("xmlparser: unsupported charset %q: %w", label, err)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
