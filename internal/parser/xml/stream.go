// Package xmlparser performs the single forward pass over an XML document,
// capturing one record subtree at a time and handing it to a callback. It
// tracks the current open-tag path so that an optional scope path can bound
// which region of the document is scanned for records, and it discards each
// record's subtree immediately after the callback returns, keeping memory
// bounded regardless of document size.
package xmlparser

import (
	"bufio"
	"context"
	"encoding/xml"
	"fmt"
	"io"
)

// ctxCheckEvery bounds how many tokens are consumed between context checks.
const ctxCheckEvery = 4096

// StreamRecords scans src for record elements and invokes fn once per fully
// captured record, in document order. The traversal is tolerant of truncated
// inputs: records fully closed before the damage are delivered, the ragged
// tail is dropped. Other structural errors are returned wrapped in
// ErrMalformed.
//
// fn errors abort the traversal and are returned as-is, so callers can
// distinguish their own record-level failures from source damage.
func StreamRecords(ctx context.Context, src io.Reader, opts Options, fn func(*Element) error) error {
	if opts.RecordTag == "" {
		return fmt.Errorf("xmlparser: RecordTag is required")
	}
	bufSize := opts.BufSize
	if bufSize <= 0 {
		bufSize = 1 << 20
	}

	dec := xml.NewDecoder(bufio.NewReaderSize(src, bufSize))
	dec.Strict = false
	dec.CharsetReader = charsetReader

	var stack []string
	active := opts.Scope == nil

	tokens := 0
	for {
		tokens++
		if tokens%ctxCheckEvery == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF || isTruncErr(err) {
				return nil
			}
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := qualify(t.Name)
			if active && name == opts.RecordTag {
				// Capture consumes through the matching end tag, so the
				// record never appears on the path stack.
				rec, ok, err := captureElement(dec, t)
				if err != nil {
					return err
				}
				if !ok {
					// Truncated inside the record: drop it and finish.
					return nil
				}
				if err := fn(rec); err != nil {
					return err
				}
				continue
			}
			stack = append(stack, name)
			if opts.Scope != nil && pathEquals(stack, opts.Scope) {
				active = true
			}

		case xml.EndElement:
			if opts.Scope != nil && pathEquals(stack, opts.Scope) {
				active = false
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// captureElement builds the Element subtree rooted at start, consuming
// decoder tokens through the matching end tag. The second return is false
// when the stream was truncated mid-record.
func captureElement(dec *xml.Decoder, start xml.StartElement) (*Element, bool, error) {
	root := &Element{Name: start.Name, Attr: copyAttrs(start.Attr)}
	elems := []*Element{root}

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF || isTruncErr(err) {
				return nil, false, nil
			}
			return nil, false, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := &Element{Name: t.Name, Attr: copyAttrs(t.Attr)}
			top := elems[len(elems)-1]
			top.Children = append(top.Children, child)
			elems = append(elems, child)
		case xml.EndElement:
			elems = elems[:len(elems)-1]
			if len(elems) == 0 {
				return root, true, nil
			}
		case xml.CharData:
			elems[len(elems)-1].text.Write(t)
		}
	}
}

// copyAttrs copies the decoder's attribute slice, which is reused between
// tokens, and drops namespace declarations.
func copyAttrs(attrs []xml.Attr) []xml.Attr {
	out := make([]xml.Attr, 0, len(attrs))
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		out = append(out, a)
	}
	return out
}

func pathEquals(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
