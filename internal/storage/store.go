// Package storage persists simulation runs under a base directory, one
// directory per run with JSON metadata and the observable histories as CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/isinglab/internal/ising"
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

// RunMetadata is the JSON sidecar saved next to each run's history.
type RunMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Temp      float64   `json:"temp"`
	Field     float64   `json:"field"`
	JRow      float64   `json:"j_row"`
	JCol      float64   `json:"j_col"`
	InitState string    `json:"init_state"`
	Seed      int64     `json:"seed"`
	Schedule  string    `json:"schedule,omitempty"`
	Sweeps    int       `json:"sweeps"`

	// Final observables, for quick listing without re-reading the CSV.
	MeanEnergy     float64 `json:"mean_energy"`
	Magnetization  float64 `json:"magnetization"`
	SpecificHeat   float64 `json:"specific_heat"`
	Susceptibility float64 `json:"susceptibility"`
}

// History is the per-generation record set of one run.
type History struct {
	Generations    []int
	Times          []float64
	Temps          []float64
	Fields         []float64
	MeanEnergy     []float64
	Magnetization  []float64
	SpecificHeat   []float64
	Susceptibility []float64
}

var csvHeader = []string{
	"gen", "time", "temp", "field",
	"mean_energy", "magnetization", "specific_heat", "susceptibility",
}

// Save writes a completed run, returning its generated id. The runner supplies
// the driver trajectory (time/temp/field) matching the model's histories entry
// for entry.
func (s *Store) Save(name string, meta RunMetadata, r *ising.Runner) (string, error) {
	model := r.Model()

	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Sweeps = model.Generation()
	meta.MeanEnergy, meta.Magnetization, meta.SpecificHeat, meta.Susceptibility = model.Last()

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

	csvFile, err := os.Create(filepath.Join(runDir, "history.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	times, temps, fields := r.Times(), r.Temperatures(), r.Fields()
	energy := model.MeanEnergy()
	magnet := model.Magnetization()
	heat := model.SpecificHeat()
	chi := model.Susceptibility()

	for i := range energy {
		row := []string{
			strconv.Itoa(i),
			formatFloat(times[i]),
			formatFloat(temps[i]),
			formatFloat(fields[i]),
			formatFloat(energy[i]),
			formatFloat(magnet[i]),
			formatFloat(heat[i]),
			formatFloat(chi[i]),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
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

// LoadHistory re-reads a run's per-generation records. Malformed rows are
// skipped rather than failing the whole load.
func (s *Store) LoadHistory(runID string) (*History, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "history.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	h := &History{}
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < len(csvHeader) {
			continue
		}

		gen, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}

		vals := make([]float64, 0, len(csvHeader)-1)
		ok := true
		for _, field := range rec[1:len(csvHeader)] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals = append(vals, v)
		}
		if !ok {
			continue
		}

		h.Generations = append(h.Generations, gen)
		h.Times = append(h.Times, vals[0])
		h.Temps = append(h.Temps, vals[1])
		h.Fields = append(h.Fields, vals[2])
		h.MeanEnergy = append(h.MeanEnergy, vals[3])
		h.Magnetization = append(h.Magnetization, vals[4])
		h.SpecificHeat = append(h.SpecificHeat, vals[5])
		h.Susceptibility = append(h.Susceptibility, vals[6])
	}

	return h, nil
}
