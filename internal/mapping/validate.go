package mapping

import (
	"fmt"
	"sort"
	"strings"

	"xmlsql/internal/config"
)

// Lint performs static checks of a compiled mapping against the record path
// the run will actually traverse. It returns warnings for mapping branches
// that can never fire, so that a sparse configuration stays intentional
// rather than accidental.
//
// recordPath is the namespace-qualified path of the record tag (the path the
// binder resolves the record's own table from).
func Lint(pm *PathMapping, recordPath string) []config.Issue {
	var issues []config.Issue

	if _, ok := pm.TableOf[recordPath]; !ok {
		issues = append(issues, config.Issue{
			Severity: config.SeverityError,
			Path:     recordPath,
			Message:  "record path opens no table; no record can be bound",
		})
	}

	reachable := func(path string) bool {
		return path == recordPath || strings.HasPrefix(path, recordPath+"/")
	}

	for _, path := range sortedKeys(pm.TableOf) {
		if !reachable(path) {
			issues = append(issues, unreachable("table", path))
		}
	}
	for _, path := range sortedKeys(pm.ValueOf) {
		if !reachable(path) {
			issues = append(issues, unreachable("value mapping", path))
		}
	}
	for _, path := range sortedKeys(pm.ColumnOf) {
		if !reachable(path) {
			issues = append(issues, unreachable("attribute mapping", path))
		}
	}
	for _, path := range sortedKeys(pm.FileNumberOf) {
		if !reachable(path) {
			issues = append(issues, unreachable("file_number mapping", path))
		}
	}

	// Columns bound to a table that no path ever opens can never be emitted:
	// the binder only writes to open rows.
	opened := map[string]bool{}
	for _, t := range pm.TableOf {
		opened[t] = true
	}
	for _, table := range sortedKeys(pm.Columns) {
		if !opened[table] {
			issues = append(issues, config.Issue{
				Severity: config.SeverityWarning,
				Path:     table,
				Message:  fmt.Sprintf("columns mapped to table %q but no path opens it", table),
			})
		}
	}

	return issues
}

func unreachable(kind, path string) config.Issue {
	return config.Issue{
		Severity: config.SeverityWarning,
		Path:     path,
		Message:  fmt.Sprintf("%s is unreachable from the record path and will never fire", kind),
	}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
