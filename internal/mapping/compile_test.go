package mapping

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleConfig = `
<article table="article" file_number="article:file_no">
  <title>article:title</title>
  <author table="author" ctr_id="author:seq" affiliation="author:affiliation:none">
    <name>author:name</name>
  </author>
</article>`

func TestCompile_Sample(t *testing.T) {
	t.Parallel()

	pm, err := Compile(strings.NewReader(sampleConfig), "")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	if got, want := pm.TableOf, (map[string]string{
		"article":        "article",
		"article/author": "author",
	}); !reflect.DeepEqual(got, want) {
		t.Fatalf("TableOf = %#v, want %#v", got, want)
	}

	if got, want := pm.ValueOf, (map[string]ColumnRef{
		"article/title":       {Table: "article", Column: "title"},
		"article/author/name": {Table: "author", Column: "name"},
	}); !reflect.DeepEqual(got, want) {
		t.Fatalf("ValueOf = %#v, want %#v", got, want)
	}

	if got, want := pm.ColumnOf, (map[string]ColumnRef{
		"article/author/affiliation": {Table: "author", Column: "affiliation"},
	}); !reflect.DeepEqual(got, want) {
		t.Fatalf("ColumnOf = %#v, want %#v", got, want)
	}

	if got, want := pm.CounterOf, (map[string]CounterRef{
		"article/author": {Table: "author", ID: "seq"},
	}); !reflect.DeepEqual(got, want) {
		t.Fatalf("CounterOf = %#v, want %#v", got, want)
	}

	if got, want := pm.FileNumberOf, (map[string]ColumnRef{
		"article": {Table: "article", Column: "file_no"},
	}); !reflect.DeepEqual(got, want) {
		t.Fatalf("FileNumberOf = %#v, want %#v", got, want)
	}

	def, ok := pm.AttrDefaults["article/author"]["affiliation"]
	if !ok {
		t.Fatalf("AttrDefaults missing article/author affiliation: %#v", pm.AttrDefaults)
	}
	if def.Value != "none" || def.Ref != (ColumnRef{Table: "author", Column: "affiliation"}) {
		t.Fatalf("AttrDefault = %#v", def)
	}

	// Declaration order per table: root attrs before children.
	if got, want := pm.Columns["article"], []string{"file_no", "title"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Columns[article] = %#v, want %#v", got, want)
	}
	if got, want := pm.Columns["author"], []string{"affiliation", "name"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Columns[author] = %#v, want %#v", got, want)
	}
}

func TestCompile_NamespaceQualifiesRootOnly(t *testing.T) {
	t.Parallel()

	pm, err := Compile(strings.NewReader(sampleConfig), "{urn:x}")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if _, ok := pm.TableOf["{urn:x}article"]; !ok {
		t.Fatalf("TableOf missing qualified root: %#v", pm.TableOf)
	}
	if _, ok := pm.TableOf["{urn:x}article/author"]; !ok {
		t.Fatalf("descendant path should stay bare below the qualified root: %#v", pm.TableOf)
	}
	if _, ok := pm.ValueOf["{urn:x}article/title"]; !ok {
		t.Fatalf("ValueOf missing qualified title path: %#v", pm.ValueOf)
	}
}

// Compiling the same document twice must yield identical mappings.
func TestCompile_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := Compile(strings.NewReader(sampleConfig), "")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	b, err := Compile(strings.NewReader(sampleConfig), "")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated compiles differ:\n%#v\n%#v", a, b)
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantCfg bool // expect *ConfigError
		wantCtr bool // expect *UnresolvedCounterError
	}{
		{
			name:    "text without colon",
			doc:     `<a table="a"><b>nocolon</b></a>`,
			wantCfg: true,
		},
		{
			name:    "text with default component",
			doc:     `<a table="a"><b>t:c:default</b></a>`,
			wantCfg: true,
		},
		{
			name:    "empty table attribute",
			doc:     `<a table=" "/>`,
			wantCfg: true,
		},
		{
			name:    "empty column name",
			doc:     `<a table="a"><b>t:</b></a>`,
			wantCfg: true,
		},
		{
			name:    "attribute with too many components",
			doc:     `<a table="a" x="t:c:d:e"/>`,
			wantCfg: true,
		},
		{
			name:    "counter without table",
			doc:     `<a table="a"><b ctr_id="b:seq"/></a>`,
			wantCtr: true,
		},
		{
			name:    "counter table mismatch",
			doc:     `<a table="a"><b table="b" ctr_id="c:seq"/></a>`,
			wantCtr: true,
		},
		{
			name: "not xml at all",
			doc:  `{"json": true}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Compile(strings.NewReader(tt.doc), "")
			if err == nil {
				t.Fatalf("Compile(%q) = nil error, want failure", tt.doc)
			}
			var ce *ConfigError
			if got := errors.As(err, &ce); got != tt.wantCfg {
				t.Fatalf("errors.As(ConfigError) = %v, want %v (err=%v)", got, tt.wantCfg, err)
			}
			var ue *UnresolvedCounterError
			if got := errors.As(err, &ue); got != tt.wantCtr {
				t.Fatalf("errors.As(UnresolvedCounterError) = %v, want %v (err=%v)", got, tt.wantCtr, err)
			}
		})
	}
}

func TestCompile_SkipsNamespaceDeclarations(t *testing.T) {
	t.Parallel()

	doc := `<a xmlns="urn:x" table="a"><b>a:b</b></a>`
	pm, err := Compile(strings.NewReader(doc), "")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	for path := range pm.ColumnOf {
		if strings.Contains(path, "xmlns") {
			t.Fatalf("xmlns declaration leaked into ColumnOf: %#v", pm.ColumnOf)
		}
	}
}
