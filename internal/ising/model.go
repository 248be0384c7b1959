// Package ising layers observable tracking and time-varying drivers on top of
// the lattice engine. A Model owns one lattice and appends one value per
// generation to each of four history series; a Runner applies a Schedule to
// temperature and field between generations.
package ising

import (
	"fmt"

	"github.com/san-kum/isinglab/internal/lattice"
)

// Model wraps a spin lattice and accumulates per-generation histories of the
// macroscopic observables: mean energy, magnetization per spin, specific heat
// per spin, and magnetic susceptibility. Histories grow without bound for the
// lifetime of the run.
type Model struct {
	lat *lattice.Lattice

	meanEnergy     []float64
	magnetization  []float64
	specificHeat   []float64
	susceptibility []float64
}

// New builds a lattice from cfg and wraps it in a Model.
func New(cfg lattice.Config) (*Model, error) {
	lat, err := lattice.New(cfg)
	if err != nil {
		return nil, err
	}
	return Wrap(lat), nil
}

// Wrap tracks an existing lattice. The lattice must not be swept outside the
// Model afterwards or the histories fall out of step with its generation
// counter.
func Wrap(lat *lattice.Lattice) *Model {
	// Generation zero gets one seed entry per history: the fluctuation
	// observables have no samples yet and start at zero.
	return &Model{
		lat:            lat,
		meanEnergy:     []float64{lat.TotalEnergy()},
		magnetization:  []float64{lat.MagneticMoment() / float64(lat.Spins())},
		specificHeat:   []float64{0},
		susceptibility: []float64{0},
	}
}

// Lattice returns the wrapped lattice for read access.
func (m *Model) Lattice() *lattice.Lattice { return m.lat }

func (m *Model) Generation() int      { return m.lat.Generation() }
func (m *Model) Spins() int           { return m.lat.Spins() }
func (m *Model) Temperature() float64 { return m.lat.Temperature() }
func (m *Model) Field() float64       { return m.lat.Field() }

// SetTemperature reassigns the lattice temperature; a zero value is a no-op.
// Takes effect starting with the next Step.
func (m *Model) SetTemperature(v float64) { m.lat.SetTemperature(v) }

// SetField reassigns the external field, effective from the next Step.
func (m *Model) SetField(v float64) { m.lat.SetField(v) }

// Step advances the lattice one generation and appends that generation's
// observables. Specific heat and susceptibility come from the population
// variance of the per-trial samples, per the fluctuation-dissipation
// estimators C = Var(E)/T² and χ = Var(M)/T.
func (m *Model) Step() {
	energySamples, momentSamples := m.lat.Sweep()

	n := float64(m.lat.Spins())
	t := m.lat.Temperature()

	m.meanEnergy = append(m.meanEnergy, mean(energySamples))
	m.magnetization = append(m.magnetization, mean(momentSamples)/n)
	m.specificHeat = append(m.specificHeat, variance(energySamples)/(t*t)/n)
	m.susceptibility = append(m.susceptibility, variance(momentSamples)/t)
}

// MeanEnergy returns the mean-energy history, one entry per generation
// starting at generation zero. Callers must not mutate the returned slice.
func (m *Model) MeanEnergy() []float64 { return m.meanEnergy }

// Magnetization returns the magnetization-per-spin history.
func (m *Model) Magnetization() []float64 { return m.magnetization }

// SpecificHeat returns the specific-heat-per-spin history.
func (m *Model) SpecificHeat() []float64 { return m.specificHeat }

// Susceptibility returns the magnetic-susceptibility history.
func (m *Model) Susceptibility() []float64 { return m.susceptibility }

// Last returns the most recent value of each observable.
func (m *Model) Last() (meanEnergy, magnetization, specificHeat, susceptibility float64) {
	i := len(m.meanEnergy) - 1
	return m.meanEnergy[i], m.magnetization[i], m.specificHeat[i], m.susceptibility[i]
}

func (m *Model) String() string {
	return fmt.Sprintf("Ising(%s, gen=%d)", m.lat, m.lat.Generation())
}
