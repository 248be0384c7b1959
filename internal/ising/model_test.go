package ising

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/isinglab/internal/lattice"
)

func newModel(t *testing.T, cfg lattice.Config) *Model {
	t.Helper()
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func TestHistoriesSeededAtGenerationZero(t *testing.T) {
	m := newModel(t, lattice.Config{
		Rows: 4, Cols: 4, Temperature: 2,
		Coupling: lattice.Uniform(1), Init: lattice.InitUp,
	})

	if len(m.MeanEnergy()) != 1 || len(m.Magnetization()) != 1 ||
		len(m.SpecificHeat()) != 1 || len(m.Susceptibility()) != 1 {
		t.Fatal("expected one seed entry per history")
	}

	if m.MeanEnergy()[0] != m.Lattice().TotalEnergy() {
		t.Errorf("seed mean energy %g, want %g", m.MeanEnergy()[0], m.Lattice().TotalEnergy())
	}
	if m.Magnetization()[0] != 1.0 {
		t.Errorf("all-up lattice should seed magnetization 1, got %g", m.Magnetization()[0])
	}
	if m.SpecificHeat()[0] != 0 || m.Susceptibility()[0] != 0 {
		t.Error("fluctuation observables should seed at zero")
	}
}

func TestStepAppendsOneValuePerHistory(t *testing.T) {
	m := newModel(t, lattice.Config{
		Rows: 4, Cols: 4, Temperature: 2,
		Coupling: lattice.Uniform(1), Seed: 11,
	})

	for want := 2; want <= 6; want++ {
		m.Step()
		if len(m.MeanEnergy()) != want || len(m.Magnetization()) != want ||
			len(m.SpecificHeat()) != want || len(m.Susceptibility()) != want {
			t.Fatalf("after step %d: history lengths %d/%d/%d/%d, want %d",
				want-1, len(m.MeanEnergy()), len(m.Magnetization()),
				len(m.SpecificHeat()), len(m.Susceptibility()), want)
		}
		if m.Generation() != want-1 {
			t.Fatalf("expected generation %d, got %d", want-1, m.Generation())
		}
	}
}

func TestFluctuationObservablesNonNegative(t *testing.T) {
	// Near-infinite temperature on a tiny lattice: every flip accepted,
	// variances must still come out non-negative.
	m := newModel(t, lattice.Config{
		Rows: 2, Cols: 2, Temperature: 1e9,
		Coupling: lattice.Uniform(1), Init: lattice.InitUp, Seed: 5,
	})

	m.Step()

	_, _, c, chi := m.Last()
	if c < 0 {
		t.Errorf("specific heat must be non-negative, got %g", c)
	}
	if chi < 0 {
		t.Errorf("susceptibility must be non-negative, got %g", chi)
	}
	if m.Lattice().MagneticMoment() != m.Lattice().SumMoment() {
		t.Error("moment bookkeeping diverged from grid")
	}
}

func TestPassthroughSetters(t *testing.T) {
	m := newModel(t, lattice.Config{Rows: 4, Cols: 4, Temperature: 2, Coupling: lattice.Uniform(1)})

	m.SetTemperature(3.5)
	if m.Temperature() != 3.5 {
		t.Errorf("expected temperature 3.5, got %g", m.Temperature())
	}

	m.SetTemperature(0)
	if m.Temperature() != 3.5 {
		t.Error("zero temperature assignment should be a no-op")
	}

	m.SetField(-0.75)
	if m.Field() != -0.75 {
		t.Errorf("expected field -0.75, got %g", m.Field())
	}
}

func TestIdempotentHistoryReads(t *testing.T) {
	m := newModel(t, lattice.Config{Rows: 4, Cols: 4, Temperature: 2, Coupling: lattice.Uniform(1), Seed: 2})
	m.Step()
	m.Step()

	a := m.MeanEnergy()
	b := m.MeanEnergy()
	if len(a) != len(b) {
		t.Fatal("history length changed without a step")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("history values changed without a step")
		}
	}
}

func TestMeanEnergyTracksLowTemperatureOrdering(t *testing.T) {
	m := newModel(t, lattice.Config{Rows: 4, Cols: 4, Temperature: 0.5, Coupling: lattice.Uniform(1), Seed: 21})

	for i := 0; i < 1000; i++ {
		m.Step()
	}

	hist := m.MeanEnergy()
	if last := hist[len(hist)-1]; last >= hist[0] {
		t.Errorf("mean energy should decrease toward the ground state: first %g, last %g", hist[0], last)
	}

	if mag := math.Abs(m.Magnetization()[len(m.Magnetization())-1]); mag < 0.9 {
		t.Errorf("expected near-saturated magnetization at T=0.5, got |m|=%g", mag)
	}
}

func TestStatsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		xs       []float64
		mean     float64
		variance float64
	}{
		{"empty", nil, 0, 0},
		{"constant", []float64{2, 2, 2, 2}, 2, 0},
		{"population variance", []float64{1, 2, 3, 4}, 2.5, 1.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mean(tt.xs); math.Abs(got-tt.mean) > 1e-12 {
				t.Errorf("mean: got %g, want %g", got, tt.mean)
			}
			if got := variance(tt.xs); math.Abs(got-tt.variance) > 1e-12 {
				t.Errorf("variance: got %g, want %g", got, tt.variance)
			}
		})
	}
}

func TestRunnerAppliesScheduleBeforeStep(t *testing.T) {
	m := newModel(t, lattice.Config{Rows: 4, Cols: 4, Temperature: 5, Coupling: lattice.Uniform(1), Seed: 4})

	r := NewRunner(m, Constant(1.5, 0.25), 0.1)
	r.Step()

	if m.Temperature() != 1.5 {
		t.Errorf("schedule temperature not applied, got %g", m.Temperature())
	}
	if m.Field() != 0.25 {
		t.Errorf("schedule field not applied, got %g", m.Field())
	}
	if len(r.Times()) != 2 || len(r.Temperatures()) != 2 || len(r.Fields()) != 2 {
		t.Error("runner should record one trajectory entry per generation")
	}
}

func TestExponentialCoolingConverges(t *testing.T) {
	sched := ExponentialCooling(5.0, 1.0, 0.5, 0)

	t0, _ := sched(0)
	if math.Abs(t0-5.0) > 1e-12 {
		t.Errorf("expected initial temperature 5, got %g", t0)
	}

	tLate, _ := sched(100)
	if math.Abs(tLate-1.0) > 1e-6 {
		t.Errorf("expected convergence to 1, got %g", tLate)
	}

	tMid, _ := sched(2) // one time constant
	want := 1.0 + 4.0*math.Exp(-1)
	if math.Abs(tMid-want) > 1e-12 {
		t.Errorf("expected %g after one time constant, got %g", want, tMid)
	}
}

func TestLinearHeatingSteps(t *testing.T) {
	sched := LinearHeating(1.0, 0.1, 6.0, 0)

	cases := []struct {
		t    float64
		want float64
	}{
		{0, 1.0},
		{5.9, 1.0},
		{6.0, 1.1},
		{12.5, 1.2},
	}
	for _, c := range cases {
		if got, _ := sched(c.t); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("t=%g: got %g, want %g", c.t, got, c.want)
		}
	}
}

func TestSineFieldOscillates(t *testing.T) {
	sched := SineField(2.0, 0.5, 1.0)

	temp, field := sched(math.Pi / 2)
	if temp != 2.0 {
		t.Errorf("temperature should stay fixed, got %g", temp)
	}
	if math.Abs(field-0.5) > 1e-12 {
		t.Errorf("expected peak field 0.5, got %g", field)
	}
}

func TestRunnerRunHonorsContext(t *testing.T) {
	m := newModel(t, lattice.Config{Rows: 4, Cols: 4, Temperature: 2, Coupling: lattice.Uniform(1), Seed: 6})
	r := NewRunner(m, nil, 0.1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.Run(ctx, 100); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if m.Generation() != 0 {
		t.Errorf("no steps should run after cancellation, got generation %d", m.Generation())
	}
}

func TestRunnerRunCompletes(t *testing.T) {
	m := newModel(t, lattice.Config{Rows: 4, Cols: 4, Temperature: 2, Coupling: lattice.Uniform(1), Seed: 6})
	r := NewRunner(m, nil, 0.1)

	if err := r.Run(context.Background(), 25); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if m.Generation() != 25 {
		t.Errorf("expected generation 25, got %d", m.Generation())
	}
}
