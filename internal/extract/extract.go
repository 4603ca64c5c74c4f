// Package extract wraps the external PDF table-extraction collaborator.
// Accuracy of the extraction itself is outside this system's control; the
// contract is only "extract tables from file X, return them in order".
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Table is one extracted table: rows of text cells.
type Table [][]string

// Extractor yields the ordered raw tables of a statement file.
type Extractor interface {
	Tables(path string) ([]Table, error)
}

// ScriptExtractor shells out to a python script that prints the extracted
// tables as a JSON array of 2D string arrays on stdout.
type ScriptExtractor struct {
	Python string // interpreter, defaults to "python"
	Script string // extraction script path
}

// NewScriptExtractor returns an extractor using the bundled camelot script.
func NewScriptExtractor() *ScriptExtractor {
	return &ScriptExtractor{Python: "python", Script: "scripts/extract_tables.py"}
}

// Tables runs the extraction script against path.
func (e *ScriptExtractor) Tables(path string) ([]Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("statement file %s: %w", path, err)
	}

	python := e.Python
	if python == "" {
		python = "python"
	}

	cmd := exec.Command(python, e.Script, path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("extracting tables from %s: %w\n%s", path, err, stderr.String())
	}

	tables, err := ParseTables(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("decoding tables from %s: %w", path, err)
	}
	return tables, nil
}

// ParseTables decodes the script's JSON output.
func ParseTables(data []byte) ([]Table, error) {
	var tables []Table
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("parsing table JSON: %w", err)
	}
	return tables, nil
}
