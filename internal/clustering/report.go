package clustering

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Report is the write-once artifact of one clustering run.
type Report struct {
	Timestamp       string    `json:"timestamp"`
	Clusters        []Cluster `json:"clusters"`
	Gaps            []Gap     `json:"gaps"`
	Recommendations []string  `json:"recommendations"`
	Summary         Summary   `json:"summary"`

	runTime time.Time
}

type Summary struct {
	TotalFAQs     int `json:"total_faqs"`
	TotalClusters int `json:"total_clusters"`
	TotalGaps     int `json:"total_gaps"`
}

// Save writes the report into dir as
// clustering_results_<YYYYMMDD_HHMMSS>.json and returns the file path.
// Filenames carry a second-resolution run timestamp; a collision within the
// same second is possible but treated as negligible.
func (r *Report) Save(dir string) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	runTime := r.runTime
	if runTime.IsZero() {
		runTime = time.Now()
	}

	filename := fmt.Sprintf("clustering_results_%s.json", runTime.Format("20060102_150405"))
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
