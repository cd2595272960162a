// Package store persists headless runs: one directory per run holding
// metadata.json and a frames.csv of per-frame metric samples.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/pbdsim/internal/metrics"
	"github.com/san-kum/pbdsim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string                     `json:"id"`
	Scenario  string                     `json:"scenario"`
	Timestamp time.Time                  `json:"timestamp"`
	Seed      int64                      `json:"seed"`
	Dt        float64                    `json:"dt"`
	Duration  float64                    `json:"duration"`
	Frames    int                        `json:"frames"`
	Particles int                        `json:"particles"`
	Summaries map[string]metrics.Summary `json:"summaries"`
	Errors    []string                   `json:"errors,omitempty"`
}

// FrameRow is one csv line of frames.csv. Columns are the standard
// metric set; a metric the run did not record reads as zero.
type FrameRow struct {
	Frame       int     `csv:"frame"`
	Time        float64 `csv:"time"`
	Kinetic     float64 `csv:"kinetic_energy"`
	Residual    float64 `csv:"constraint_residual"`
	OutOfBounds float64 `csv:"out_of_bounds"`
	Dropped     float64 `csv:"dropped"`
}

func frameRows(result *sim.Result) []FrameRow {
	pick := func(name string, i int) float64 {
		s := result.Series[name]
		if i < len(s) {
			return s[i]
		}
		return 0
	}
	rows := make([]FrameRow, len(result.Times))
	for i, t := range result.Times {
		rows[i] = FrameRow{
			Frame:       i,
			Time:        t,
			Kinetic:     pick("kinetic_energy", i),
			Residual:    pick("constraint_residual", i),
			OutOfBounds: pick("out_of_bounds", i),
			Dropped:     pick("dropped", i),
		}
	}
	return rows
}

// Save writes one run directory and returns its ID.
func (s *Store) Save(scenario string, dt, duration float64, seed int64, particles int, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Seed:      seed,
		Dt:        dt,
		Duration:  duration,
		Frames:    result.FramesTaken,
		Particles: particles,
		Summaries: result.Summaries,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := gocsv.Marshal(frameRows(result), csvFile); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]FrameRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []FrameRow
	if err := gocsv.Unmarshal(file, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
