package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeebo/xxh3"

	"xmlsql/internal/config"
	"xmlsql/internal/filenum"
	"xmlsql/internal/mapping"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func compile(t *testing.T, doc string) *mapping.PathMapping {
	t.Helper()
	pm, err := mapping.Compile(strings.NewReader(doc), "")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	return pm
}

func TestRun_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "feed.xml")
	writeFile(t, src, `<root><item code="A1">X</item></root>`)
	out := filepath.Join(dir, "sql")

	cfg := config.Run{
		Source:        src,
		ConfigFile:    "mapping.xml",
		OutputDir:     out,
		RecordTag:     "item",
		IdentifierTag: "item",
	}
	pm := compile(t, `<item table="item" code="item:code"/>`)

	sum, err := Run(context.Background(), cfg, pm, filenum.Lookup{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Records != 1 || sum.Skipped != 0 || sum.Statements != 1 || sum.Failed != 0 {
		t.Fatalf("summary = %+v", sum)
	}

	data, err := os.ReadFile(filepath.Join(out, "item.sql"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "BEGIN;\n" +
		`INSERT INTO "item" ("id","code") VALUES ('X','A1');` + "\n" +
		"COMMIT;\n"
	if string(data) != want {
		t.Fatalf("item.sql:\n%s\nwant:\n%s", data, want)
	}

	// The manifest must carry the checksum of the file as written.
	mdata, err := os.ReadFile(filepath.Join(out, manifestName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m manifest
	if err := json.Unmarshal(mdata, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if m.Dialect != "postgres" || m.Records != 1 || len(m.Units) != 1 {
		t.Fatalf("manifest = %+v", m)
	}
	tr, ok := m.Units[0].Tables["item"]
	if !ok {
		t.Fatalf("manifest missing item table: %+v", m.Units[0])
	}
	if want := fmt.Sprintf("%016x", xxh3.Hash(data)); tr.Checksum != want {
		t.Fatalf("manifest checksum = %s, want %s", tr.Checksum, want)
	}
	if tr.Statements != 1 {
		t.Fatalf("manifest statements = %d, want 1", tr.Statements)
	}
}

func TestRun_NestedCounters(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "feed.xml")
	writeFile(t, src, `<root><item>P<detail>a</detail><detail>b</detail></item></root>`)
	out := filepath.Join(dir, "sql")

	cfg := config.Run{
		Source:        src,
		ConfigFile:    "mapping.xml",
		OutputDir:     out,
		RecordTag:     "item",
		IdentifierTag: "item",
	}
	pm := compile(t, `<item table="item"><detail table="detail" ctr_id="detail:seq">detail:note</detail></item>`)

	if _, err := Run(context.Background(), cfg, pm, filenum.Lookup{}); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	detail, err := os.ReadFile(filepath.Join(out, "detail.sql"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "BEGIN;\n" +
		`INSERT INTO "detail" ("id","seq","note") VALUES ('P',1,'a');` + "\n" +
		`INSERT INTO "detail" ("id","seq","note") VALUES ('P',2,'b');` + "\n" +
		"COMMIT;\n"
	if string(detail) != want {
		t.Fatalf("detail.sql:\n%s\nwant:\n%s", detail, want)
	}

	item, err := os.ReadFile(filepath.Join(out, "item.sql"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	wantItem := "BEGIN;\n" +
		`INSERT INTO "item" ("id") VALUES ('P');` + "\n" +
		"COMMIT;\n"
	if string(item) != wantItem {
		t.Fatalf("item.sql:\n%s\nwant:\n%s", item, wantItem)
	}
}

// Multiple inputs write into per-file subdirectories so their table files
// cannot collide.
func TestRun_MultiFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srcDir := filepath.Join(dir, "in")
	writeFile(t, filepath.Join(srcDir, "a.xml"), `<root><item code="A">1</item></root>`)
	writeFile(t, filepath.Join(srcDir, "b.xml"), `<root><item code="B">2</item></root>`)
	out := filepath.Join(dir, "sql")

	cfg := config.Run{
		Source:        srcDir,
		ConfigFile:    "mapping.xml",
		OutputDir:     out,
		RecordTag:     "item",
		IdentifierTag: "item",
		Workers:       2,
	}
	pm := compile(t, `<item table="item" code="item:code"/>`)

	sum, err := Run(context.Background(), cfg, pm, filenum.Lookup{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Records != 2 || len(sum.Units) != 2 {
		t.Fatalf("summary = %+v", sum)
	}

	for _, stem := range []string{"a", "b"} {
		if _, err := os.Stat(filepath.Join(out, stem, "item.sql")); err != nil {
			t.Fatalf("missing per-file output: %v", err)
		}
	}
	// Unit order follows the sorted input order.
	if filepath.Base(sum.Units[0].Source) != "a.xml" {
		t.Fatalf("units out of order: %+v", sum.Units)
	}
}

// One undecodable file must not stop the rest of the run.
func TestRun_MalformedUnitContinues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srcDir := filepath.Join(dir, "in")
	writeFile(t, filepath.Join(srcDir, "bad.xml"),
		`<?xml version="1.0" encoding="no-such-charset"?><root><item>X</item></root>`)
	writeFile(t, filepath.Join(srcDir, "good.xml"), `<root><item code="A">1</item></root>`)
	out := filepath.Join(dir, "sql")

	cfg := config.Run{
		Source:        srcDir,
		ConfigFile:    "mapping.xml",
		OutputDir:     out,
		RecordTag:     "item",
		IdentifierTag: "item",
	}
	pm := compile(t, `<item table="item" code="item:code"/>`)

	sum, err := Run(context.Background(), cfg, pm, filenum.Lookup{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Failed != 1 || sum.Records != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if _, err := os.Stat(filepath.Join(out, "good", "item.sql")); err != nil {
		t.Fatalf("good unit missing output: %v", err)
	}
}

// Records without their identifier are skipped; the rest of the file binds.
func TestRun_SkipsRecordsWithoutIdentifier(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "feed.xml")
	writeFile(t, src, `<root><item code="A"></item><item code="B">Y</item></root>`)
	out := filepath.Join(dir, "sql")

	cfg := config.Run{
		Source:        src,
		ConfigFile:    "mapping.xml",
		OutputDir:     out,
		RecordTag:     "item",
		IdentifierTag: "item",
	}
	pm := compile(t, `<item table="item" code="item:code"/>`)

	sum, err := Run(context.Background(), cfg, pm, filenum.Lookup{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Records != 1 || sum.Skipped != 1 {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestRun_FileNumber(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "feed.xml")
	writeFile(t, src, `<root><item>X</item></root>`)
	out := filepath.Join(dir, "sql")

	cfg := config.Run{
		Source:        src,
		ConfigFile:    "mapping.xml",
		OutputDir:     out,
		RecordTag:     "item",
		IdentifierTag: "item",
	}
	pm := compile(t, `<item table="item" file_number="item:file_no"/>`)

	if _, err := Run(context.Background(), cfg, pm, filenum.Lookup{"feed.xml": 12}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "item.sql"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := `INSERT INTO "item" ("id","file_no") VALUES ('X','12');`
	if !strings.Contains(string(data), want) {
		t.Fatalf("item.sql:\n%s\nwant to contain:\n%s", data, want)
	}
}
