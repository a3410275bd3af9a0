package mapping

import (
	"strings"
	"testing"

	"xmlsql/internal/config"
)

func TestLint_CleanConfig(t *testing.T) {
	t.Parallel()

	pm, err := Compile(strings.NewReader(sampleConfig), "")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if issues := Lint(pm, "article"); len(issues) != 0 {
		t.Fatalf("Lint = %#v, want none", issues)
	}
}

func TestLint_RecordOpensNoTable(t *testing.T) {
	t.Parallel()

	pm, err := Compile(strings.NewReader(sampleConfig), "")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	issues := Lint(pm, "record")
	if !config.HasError(issues) {
		t.Fatalf("Lint = %#v, want an error for the unmapped record path", issues)
	}
}

func TestLint_UnreachableBranches(t *testing.T) {
	t.Parallel()

	// The record is article/author, so everything hanging off the root is
	// unreachable and should warn.
	pm, err := Compile(strings.NewReader(sampleConfig), "")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	issues := Lint(pm, "article/author")

	if config.HasError(issues) {
		t.Fatalf("Lint = %#v, want warnings only", issues)
	}
	warned := map[string]bool{}
	for _, iss := range issues {
		if iss.Severity != config.SeverityWarning {
			t.Fatalf("unexpected severity in %#v", iss)
		}
		warned[iss.Path] = true
	}
	for _, path := range []string{"article", "article/title"} {
		if !warned[path] {
			t.Fatalf("expected a warning for %q, got %#v", path, issues)
		}
	}
	if warned["article/author/name"] {
		t.Fatalf("reachable path warned: %#v", issues)
	}
}

func TestLint_ColumnsOnNeverOpenedTable(t *testing.T) {
	t.Parallel()

	doc := `<a table="a"><b>ghost:col</b></a>`
	pm, err := Compile(strings.NewReader(doc), "")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	issues := Lint(pm, "a")
	found := false
	for _, iss := range issues {
		if iss.Severity == config.SeverityWarning && iss.Path == "ghost" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Lint = %#v, want warning for table ghost", issues)
	}
}
