package file

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte("<x/>"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestListXML_SingleFile(t *testing.T) {
	t.Parallel()

	// A plain file is accepted even without an .xml extension.
	p := filepath.Join(t.TempDir(), "feed.dat")
	touch(t, p)

	got, err := ListXML(p, false)
	if err != nil {
		t.Fatalf("ListXML error: %v", err)
	}
	if want := []string{p}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ListXML = %#v, want %#v", got, want)
	}
}

func TestListXML_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.xml"))
	touch(t, filepath.Join(dir, "a.XML"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "sub", "c.xml"))

	got, err := ListXML(dir, false)
	if err != nil {
		t.Fatalf("ListXML error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.XML"),
		filepath.Join(dir, "b.xml"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListXML = %#v, want %#v", got, want)
	}
}

func TestListXML_Recursive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.xml"))
	touch(t, filepath.Join(dir, "sub", "c.xml"))
	touch(t, filepath.Join(dir, "sub", "deep", "d.xml"))
	touch(t, filepath.Join(dir, "sub", "skip.json"))

	got, err := ListXML(dir, true)
	if err != nil {
		t.Fatalf("ListXML error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "b.xml"),
		filepath.Join(dir, "sub", "c.xml"),
		filepath.Join(dir, "sub", "deep", "d.xml"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListXML = %#v, want %#v", got, want)
	}
}

func TestListXML_Missing(t *testing.T) {
	t.Parallel()

	if _, err := ListXML(filepath.Join(t.TempDir(), "nope"), false); err == nil {
		t.Fatalf("expected error for missing path, got nil")
	}
}
