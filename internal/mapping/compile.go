package mapping

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Reserved attribute names in the configuration document.
const (
	attrTable      = "table"
	attrCounterID  = "ctr_id"
	attrFileNumber = "file_number"
)

// cfgNode is the generic tree shape the configuration document decodes into.
type cfgNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []cfgNode  `xml:",any"`
}

// Compile parses a mapping configuration document and produces the compiled
// PathMapping. The namespace, when non-empty, is prepended to the first path
// segment (the configuration root), mirroring how data paths are built.
//
// Compile is a pure function of its input: compiling the same document twice
// yields identical mappings, and the result is never mutated afterwards.
func Compile(r io.Reader, namespace string) (*PathMapping, error) {
	var root cfgNode
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("mapping: parse config: %w", err)
	}

	pm := &PathMapping{
		TableOf:      map[string]string{},
		ValueOf:      map[string]ColumnRef{},
		ColumnOf:     map[string]ColumnRef{},
		AttrDefaults: map[string]map[string]AttrDefault{},
		CounterOf:    map[string]CounterRef{},
		FileNumberOf: map[string]ColumnRef{},
		Columns:      map[string][]string{},
	}

	if err := pm.walk(root, namespace+root.XMLName.Local); err != nil {
		return nil, err
	}

	// Every counter must ride on a table opened at the same path, and the
	// two must agree on the table name. Anything else is a configuration
	// inconsistency that would surface as a broken identifier chain at
	// bind time, so it is rejected up front.
	for path, ref := range pm.CounterOf {
		table, ok := pm.TableOf[path]
		if !ok {
			return nil, &UnresolvedCounterError{Path: path, Ref: ref, Reason: "no table opened at this path"}
		}
		if table != ref.Table {
			return nil, &UnresolvedCounterError{
				Path: path, Ref: ref,
				Reason: fmt.Sprintf("declared for table %q but path opens table %q", ref.Table, table),
			}
		}
	}

	return pm, nil
}

// walk records the mappings declared on one configuration node and recurses
// into its children. path is the node's slash-delimited canonical path.
func (pm *PathMapping) walk(n cfgNode, path string) error {
	if text := strings.TrimSpace(n.Text); text != "" {
		ref, _, err := parseColumnValue(path, text, false)
		if err != nil {
			return err
		}
		pm.ValueOf[path] = ref
		pm.registerColumn(ref.Table, ref.Column)
	}

	for _, a := range n.Attrs {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		switch a.Name.Local {
		case attrTable:
			if strings.TrimSpace(a.Value) == "" {
				return &ConfigError{Path: path, Value: a.Value, Reason: "empty table name"}
			}
			pm.TableOf[path] = a.Value

		case attrCounterID:
			ref, _, err := parseColumnValue(path, a.Value, false)
			if err != nil {
				return err
			}
			pm.CounterOf[path] = CounterRef{Table: ref.Table, ID: ref.Column}

		case attrFileNumber:
			ref, _, err := parseColumnValue(path, a.Value, false)
			if err != nil {
				return err
			}
			pm.FileNumberOf[path] = ref
			pm.registerColumn(ref.Table, ref.Column)

		default:
			attrPath := path + "/" + a.Name.Local
			ref, def, err := parseColumnValue(attrPath, a.Value, true)
			if err != nil {
				return err
			}
			pm.ColumnOf[attrPath] = ref
			pm.registerColumn(ref.Table, ref.Column)
			if def != nil {
				m := pm.AttrDefaults[path]
				if m == nil {
					m = map[string]AttrDefault{}
					pm.AttrDefaults[path] = m
				}
				m[a.Name.Local] = AttrDefault{Ref: ref, Value: *def}
			}
		}
	}

	for _, c := range n.Children {
		if err := pm.walk(c, path+"/"+c.XMLName.Local); err != nil {
			return err
		}
	}
	return nil
}

// parseColumnValue parses a "table:column" mapping value, optionally with a
// third ":default" component when allowDefault is set. The returned default
// is nil when absent.
func parseColumnValue(path, raw string, allowDefault bool) (ColumnRef, *string, error) {
	parts := strings.Split(raw, ":")
	switch {
	case len(parts) < 2:
		return ColumnRef{}, nil, &ConfigError{Path: path, Value: raw, Reason: "want table:column"}
	case len(parts) == 2:
	case len(parts) == 3 && allowDefault:
	default:
		if allowDefault {
			return ColumnRef{}, nil, &ConfigError{Path: path, Value: raw, Reason: "want table:column[:default]"}
		}
		return ColumnRef{}, nil, &ConfigError{Path: path, Value: raw, Reason: "want table:column"}
	}
	table, column := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if table == "" || column == "" {
		return ColumnRef{}, nil, &ConfigError{Path: path, Value: raw, Reason: "empty table or column name"}
	}
	ref := ColumnRef{Table: table, Column: column}
	if len(parts) == 3 {
		def := parts[2]
		return ref, &def, nil
	}
	return ref, nil, nil
}
