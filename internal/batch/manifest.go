package batch

import (
	"encoding/json"
	"os"

	"tilesheet-inspector/internal/report"
)

// Manifest is the document written after a batch run.
type Manifest struct {
	Sheets []report.Report `json:"sheets"`
	Failed []Failure       `json:"failed,omitempty"`
}

// Failure records a sheet that could not be inspected.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// NewManifest collects the reports and failures of results.
func NewManifest(results []Result) Manifest {
	m := Manifest{Sheets: []report.Report{}}
	for _, r := range results {
		if r.Success {
			m.Sheets = append(m.Sheets, *r.Report)
		} else {
			m.Failed = append(m.Failed, Failure{Path: r.Path, Error: r.Error})
		}
	}
	return m
}

// WriteManifest writes manifest.json for results to path.
func WriteManifest(path string, results []Result) error {
	data, err := json.MarshalIndent(NewManifest(results), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
