package binder

import (
	"fmt"
	"sort"
	"strconv"

	"xmlsql/internal/emitter"
	"xmlsql/internal/mapping"
	xmlparser "xmlsql/internal/parser/xml"
)

// Binder binds captured record subtrees against a compiled mapping. One
// Binder serves one processing unit; it owns that unit's Registry.
type Binder struct {
	pm  *mapping.PathMapping
	reg *Registry

	recordPath     string
	identifierPath string
	fileNumber     int
}

// New creates a Binder for one processing unit. recordPath and
// identifierPath are the namespace-qualified record and identifier paths;
// fileNumber is the unit's file number (-1 when no lookup is configured).
func New(pm *mapping.PathMapping, emit EmitFunc, recordPath, identifierPath string, fileNumber int) *Binder {
	return &Binder{
		pm:             pm,
		reg:            NewRegistry(pm, emit),
		recordPath:     recordPath,
		identifierPath: identifierPath,
		fileNumber:     fileNumber,
	}
}

// BindRecord binds one record element: opens the record's table row,
// assigns its primary identifier, recursively visits the subtree, and
// closes every row it opened. On error all open rows are discarded so the
// Binder stays usable for the next record.
func (b *Binder) BindRecord(rec *xmlparser.Element) error {
	if err := b.bindRecord(rec); err != nil {
		b.reg.Abort()
		return err
	}
	return nil
}

func (b *Binder) bindRecord(rec *xmlparser.Element) error {
	table, ok := b.pm.TableOf[b.recordPath]
	if !ok {
		return fmt.Errorf("binder: record path %q opens no table", b.recordPath)
	}
	row, err := b.reg.Open(table, nil, b.recordPath)
	if err != nil {
		return err
	}

	// The identifier tag may be the record tag itself, in which case the
	// record's own text is the identifier; otherwise it is located by a
	// single lookup beneath the record.
	idText := ""
	if b.identifierPath == b.recordPath {
		idText = rec.Text()
	} else if el := rec.Find(b.identifierPath); el != nil {
		idText = el.Text()
	}
	if idText == "" {
		return &MissingIdentifierError{RecordPath: b.recordPath, IdentifierPath: b.identifierPath}
	}
	row.SetIdentifier("id", emitter.QuoteLiteral(idText))

	if err := b.applyMappings(rec, b.recordPath); err != nil {
		return err
	}
	for _, child := range rec.Children {
		if err := b.bindNode(child, b.recordPath, table); err != nil {
			return err
		}
	}
	return b.reg.Close(table)
}

// bindNode visits one descendant element. path is the parent's canonical
// path; owner names the table whose row is in effect for this subtree.
func (b *Binder) bindNode(node *xmlparser.Element, path, owner string) error {
	// Paths below the record use bare local names; only the record path
	// itself carries the namespace qualifier.
	newPath := path + "/" + node.Name.Local

	table := owner
	opened := false
	if t, ok := b.pm.TableOf[newPath]; ok {
		parent := b.reg.Get(owner)
		if parent == nil {
			return fmt.Errorf("binder: table %q opened at %q before its parent %q", t, newPath, owner)
		}
		if _, err := b.reg.Open(t, parent, newPath); err != nil {
			return err
		}
		table = t
		opened = true
	}

	if err := b.applyMappings(node, newPath); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := b.bindNode(child, newPath, table); err != nil {
			return err
		}
	}

	// Rows opened here close only after the whole subtree is bound, so
	// descendants inherit identifiers from the live row.
	if opened {
		return b.reg.Close(table)
	}
	return nil
}

// applyMappings resolves the node's own file-number, attribute, default,
// and text-value mappings. Unmapped attributes and elements are skipped by
// design: sparse configurations are valid.
func (b *Binder) applyMappings(node *xmlparser.Element, path string) error {
	if ref, ok := b.pm.FileNumberOf[path]; ok {
		if err := b.reg.SetColumn(ref.Table, ref.Column, strconv.Itoa(b.fileNumber)); err != nil {
			return err
		}
	}

	var seen map[string]bool
	for _, a := range node.Attr {
		ref, ok := b.pm.ColumnOf[path+"/"+a.Name.Local]
		if !ok {
			continue
		}
		if err := b.reg.SetColumn(ref.Table, ref.Column, a.Value); err != nil {
			return err
		}
		if seen == nil {
			seen = map[string]bool{}
		}
		seen[a.Name.Local] = true
	}

	if defs := b.pm.AttrDefaults[path]; len(defs) > 0 {
		names := make([]string, 0, len(defs))
		for name := range defs {
			if !seen[name] {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			d := defs[name]
			if err := b.reg.SetColumn(d.Ref.Table, d.Ref.Column, d.Value); err != nil {
				return err
			}
		}
	}

	if ref, ok := b.pm.ValueOf[path]; ok {
		if text := node.Text(); text != "" {
			if err := b.reg.SetColumn(ref.Table, ref.Column, text); err != nil {
				return err
			}
		}
	}
	return nil
}
