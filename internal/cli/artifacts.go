package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// artifactTimeFormat stamps artifact names so that repeated scans never
// overwrite each other.
const artifactTimeFormat = "20060102_150405"

func ensureOutputDir(path string) error {
	if path == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	return os.MkdirAll(path, 0o755)
}

func artifactPath(outputDir string, at time.Time, format string) string {
	return filepath.Join(outputDir, fmt.Sprintf("detections_%s.%s", at.UTC().Format(artifactTimeFormat), format))
}

// writeJSON stores v indented, creating the parent directory when needed.
func writeJSON(path string, v interface{}, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := ensureOutputDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), perm)
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
