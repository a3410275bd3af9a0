package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"xmlsql/internal/config"
)

// manifestName is the summary file written at the root of the output dir.
const manifestName = "manifest.json"

type manifest struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Source      string       `json:"source"`
	ConfigFile  string       `json:"config_file"`
	Dialect     string       `json:"dialect"`
	Records     int          `json:"records"`
	Skipped     int          `json:"skipped"`
	Statements  int          `json:"statements"`
	Units       []UnitResult `json:"units"`
}

// writeManifest records what the run produced, including the xxh3 checksum
// of every table file, so downstream loaders can verify transfers.
func writeManifest(cfg config.Run, sum *Summary) error {
	dialect := cfg.Dialect
	if dialect == "" {
		dialect = config.DialectPostgres
	}
	m := manifest{
		GeneratedAt: time.Now().UTC(),
		Source:      cfg.Source,
		ConfigFile:  cfg.ConfigFile,
		Dialect:     dialect,
		Records:     sum.Records,
		Skipped:     sum.Skipped,
		Statements:  sum.Statements,
		Units:       sum.Units,
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("runner: encode manifest: %w", err)
	}
	path := filepath.Join(cfg.OutputDir, manifestName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("runner: write manifest: %w", err)
	}
	return nil
}
