package inspect

import (
	"fmt"
	"sort"
	"strings"
)

// StarterMapping renders a starter mapping configuration document from a
// discovery report. Every path with text examples becomes a value mapping
// and every seen attribute an attribute mapping, all onto a single table
// named after the record tag; columns are the underscore-joined paths. The
// output is a starting point meant to be pruned and split by hand.
func StarterMapping(rep DiscoverReport) string {
	table := localName(rep.RecordTag)

	root := &starterNode{name: localName(rep.RecordTag)}
	for _, path := range SortedPaths(rep) {
		agg := rep.Paths[path]
		n := root.ensure(strings.Split(path, "/"))
		if len(agg.ExampleTexts) > 0 {
			n.column = table + ":" + columnName(path)
		}
		for _, attr := range sortedAttrNames(agg.AttrValues) {
			n.attrs = append(n.attrs, fmt.Sprintf(`%s=%q`, attr, table+":"+columnName(path+"/"+attr)))
		}
	}

	var b strings.Builder
	root.render(&b, 0, fmt.Sprintf(` table=%q`, table))
	return b.String()
}

type starterNode struct {
	name     string
	column   string
	attrs    []string
	children []*starterNode
}

func (n *starterNode) ensure(segs []string) *starterNode {
	if len(segs) == 0 {
		return n
	}
	for _, c := range n.children {
		if c.name == segs[0] {
			return c.ensure(segs[1:])
		}
	}
	c := &starterNode{name: segs[0]}
	n.children = append(n.children, c)
	return c.ensure(segs[1:])
}

func (n *starterNode) render(b *strings.Builder, depth int, extraAttrs string) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteByte('<')
	b.WriteString(n.name)
	b.WriteString(extraAttrs)
	for _, a := range n.attrs {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	switch {
	case len(n.children) == 0 && n.column == "":
		b.WriteString("/>\n")
	case len(n.children) == 0:
		fmt.Fprintf(b, ">%s</%s>\n", n.column, n.name)
	default:
		b.WriteString(">")
		if n.column != "" {
			b.WriteString(n.column)
		}
		b.WriteByte('\n')
		for _, c := range n.children {
			c.render(b, depth+1, "")
		}
		fmt.Fprintf(b, "%s</%s>\n", indent, n.name)
	}
}

// localName strips a "{uri}" qualifier from a record tag.
func localName(tag string) string {
	if i := strings.LastIndex(tag, "}"); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

func columnName(path string) string {
	return strings.ReplaceAll(path, "/", "_")
}

func sortedAttrNames(m map[string]map[string]int) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
