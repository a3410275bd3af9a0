package xmlparser

import (
	"encoding/xml"
	"strings"
)

// Element is the in-memory subtree of one captured record. Only record
// subtrees are ever materialized; everything outside them streams through
// without buffering.
type Element struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children []*Element

	text strings.Builder // chardata directly inside this element
}

// QualifiedName returns the element's name in "{space}local" form, or the
// bare local name when the element carries no namespace.
func (e *Element) QualifiedName() string { return qualify(e.Name) }

// Text returns the element's direct character data with surrounding
// whitespace trimmed. Character data of descendants is not included.
func (e *Element) Text() string { return strings.TrimSpace(e.text.String()) }

// Find locates the first descendant matching the slash-delimited path of
// qualified (or bare local) tag names, depth-first in document order.
// It returns nil when no descendant matches.
func (e *Element) Find(path string) *Element {
	segs := strings.Split(path, "/")
	return e.find(segs)
}

func (e *Element) find(segs []string) *Element {
	if len(segs) == 0 {
		return e
	}
	for _, c := range e.Children {
		if !nameMatches(c.Name, segs[0]) {
			continue
		}
		if found := c.find(segs[1:]); found != nil {
			return found
		}
	}
	return nil
}

// nameMatches compares an element name against one path segment. A segment
// of the form "{uri}local" must match both namespace and local name; a bare
// segment matches on the local name alone.
func nameMatches(n xml.Name, seg string) bool {
	if strings.HasPrefix(seg, "{") {
		return qualify(n) == seg
	}
	return n.Local == seg
}

// qualify renders an xml.Name as "{space}local", or "local" when the name
// has no namespace.
func qualify(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}
