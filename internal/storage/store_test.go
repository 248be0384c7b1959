package storage

import (
	"strings"
	"testing"

	"github.com/san-kum/isinglab/internal/ising"
	"github.com/san-kum/isinglab/internal/lattice"
)

func testRunner(t *testing.T) *ising.Runner {
	t.Helper()
	m, err := ising.New(lattice.Config{
		Rows: 4, Cols: 4, Temperature: 2.0,
		Coupling: lattice.Uniform(1), Seed: 42,
	})
	if err != nil {
		t.Fatalf("model setup failed: %v", err)
	}
	r := ising.NewRunner(m, nil, 0.1)
	for i := 0; i < 5; i++ {
		r.Step()
	}
	return r
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	r := testRunner(t)
	meta := RunMetadata{
		Rows: 4, Cols: 4, Temp: 2.0, JRow: 1, JCol: 1,
		InitState: "random", Seed: 42,
	}

	runID, err := st.Save("test", meta, r)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" || !strings.HasPrefix(runID, "test_") {
		t.Errorf("unexpected run id %q", runID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.ID != runID {
		t.Errorf("expected id %q, got %q", runID, loaded.ID)
	}
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
	if loaded.Sweeps != 5 {
		t.Errorf("expected 5 sweeps, got %d", loaded.Sweeps)
	}

	wantE, wantM, wantC, wantChi := r.Model().Last()
	if loaded.MeanEnergy != wantE || loaded.Magnetization != wantM ||
		loaded.SpecificHeat != wantC || loaded.Susceptibility != wantChi {
		t.Error("final observables not carried into metadata")
	}
}

func TestStoreLoadHistory(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	r := testRunner(t)
	runID, err := st.Save("test", RunMetadata{}, r)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	h, err := st.LoadHistory(runID)
	if err != nil {
		t.Fatalf("load history failed: %v", err)
	}

	// Generation 0 seeds plus 5 sweeps.
	if len(h.Generations) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(h.Generations))
	}
	if h.Generations[0] != 0 || h.Generations[5] != 5 {
		t.Errorf("generation column wrong: %v", h.Generations)
	}
	if len(h.MeanEnergy) != 6 || len(h.Magnetization) != 6 ||
		len(h.SpecificHeat) != 6 || len(h.Susceptibility) != 6 {
		t.Error("observable columns should match row count")
	}
	for i, temp := range h.Temps {
		if temp != 2.0 {
			t.Errorf("row %d: expected constant temp 2.0, got %g", i, temp)
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty store, got %d runs", len(runs))
	}

	r := testRunner(t)
	if _, err := st.Save("a", RunMetadata{}, r); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New("/nonexistent/isinglab-test")

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list of missing dir should not fail: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
