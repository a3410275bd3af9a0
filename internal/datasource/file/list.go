package file

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListXML resolves the run's input argument to the ordered list of XML
// files to process. A plain file is returned as-is regardless of its
// extension; a directory yields its *.xml entries, descending into
// subdirectories only when recurse is set. Results are sorted so runs are
// deterministic regardless of readdir order.
func ListXML(root string, recurse bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var out []string
	if recurse {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isXML(path) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", root, err)
		}
		for _, e := range entries {
			if !e.IsDir() && isXML(e.Name()) {
				out = append(out, filepath.Join(root, e.Name()))
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func isXML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}
