// Package ensemble runs temperature sweeps over batches of independent Ising
// models and averages their observables, the standard way to smooth the noisy
// fluctuation estimators near the critical point.
package ensemble

import (
	"context"
	"errors"
	"sync"

	"github.com/san-kum/isinglab/internal/ising"
	"github.com/san-kum/isinglab/internal/lattice"
)

// ErrNoModels indicates a sweep configured with zero models.
var ErrNoModels = errors.New("ensemble: at least one model required")

// ErrBadRange indicates a temperature range the step size cannot traverse.
var ErrBadRange = errors.New("ensemble: temperature step does not reach end from start")

// Point is one averaged measurement of the sweep: the observables at a single
// temperature plateau, averaged first over each model's tail window and then
// across models.
type Point struct {
	Temperature    float64
	MeanEnergy     float64
	Magnetization  float64
	SpecificHeat   float64
	Susceptibility float64
}

// Sweep describes an averaged heating (or cooling) run. Each of Models
// independent lattices is seeded with SeedBase+index, held for Plateau
// generations at every temperature from StartTemp to EndTemp in steps of
// TempStep, and measured as the mean of its last Tail generations. The sign
// of TempStep sets the direction: a cooling run uses a negative step with
// EndTemp below StartTemp.
type Sweep struct {
	Models    int
	SeedBase  int64
	StartTemp float64
	EndTemp   float64
	TempStep  float64
	Plateau   int
	Tail      int
}

// DefaultSweep mirrors the reference heating run: 8 models, 0.1 temperature
// steps held for 60 generations, measured over the last 10.
func DefaultSweep() Sweep {
	return Sweep{
		Models:    8,
		SeedBase:  1,
		StartTemp: 1.0,
		EndTemp:   4.0,
		TempStep:  0.1,
		Plateau:   60,
		Tail:      10,
	}
}

func (s Sweep) temperatures() []float64 {
	temps := make([]float64, 0, 32)
	if s.TempStep > 0 {
		for t := s.StartTemp; t <= s.EndTemp+1e-9; t += s.TempStep {
			temps = append(temps, t)
		}
	} else {
		for t := s.StartTemp; t >= s.EndTemp-1e-9; t += s.TempStep {
			temps = append(temps, t)
		}
	}
	return temps
}

// Run executes the sweep. Base supplies the lattice geometry, coupling, field,
// and initial configuration; its temperature and seed are overridden per model
// and per plateau. Models run concurrently with zero shared mutable state.
//
// Cancellation is checked between plateaus only: an in-flight plateau finishes
// and no partial results are returned.
func (s Sweep) Run(ctx context.Context, base lattice.Config) ([]Point, error) {
	if s.Models <= 0 {
		return nil, ErrNoModels
	}
	if s.TempStep == 0 ||
		(s.TempStep > 0 && s.EndTemp < s.StartTemp) ||
		(s.TempStep < 0 && s.EndTemp > s.StartTemp) {
		return nil, ErrBadRange
	}
	if s.Plateau <= 0 {
		s.Plateau = 1
	}
	if s.Tail <= 0 || s.Tail > s.Plateau {
		s.Tail = s.Plateau
	}

	temps := s.temperatures()

	// One observable track per model; averaged after the join.
	tracks := make([][]Point, s.Models)
	errs := make([]error, s.Models)

	var wg sync.WaitGroup
	for i := 0; i < s.Models; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := base
			cfg.Temperature = s.StartTemp
			cfg.Seed = s.SeedBase + int64(idx)

			tracks[idx], errs[idx] = s.runOne(ctx, cfg, temps)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	points := make([]Point, len(temps))
	for ti := range temps {
		p := Point{Temperature: temps[ti]}
		for _, track := range tracks {
			p.MeanEnergy += track[ti].MeanEnergy
			p.Magnetization += track[ti].Magnetization
			p.SpecificHeat += track[ti].SpecificHeat
			p.Susceptibility += track[ti].Susceptibility
		}
		n := float64(s.Models)
		p.MeanEnergy /= n
		p.Magnetization /= n
		p.SpecificHeat /= n
		p.Susceptibility /= n
		points[ti] = p
	}

	return points, nil
}

func (s Sweep) runOne(ctx context.Context, cfg lattice.Config, temps []float64) ([]Point, error) {
	model, err := ising.New(cfg)
	if err != nil {
		return nil, err
	}

	track := make([]Point, 0, len(temps))
	for _, temp := range temps {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		model.SetTemperature(temp)
		for i := 0; i < s.Plateau; i++ {
			model.Step()
		}

		track = append(track, Point{
			Temperature:    temp,
			MeanEnergy:     tailMean(model.MeanEnergy(), s.Tail),
			Magnetization:  tailMean(model.Magnetization(), s.Tail),
			SpecificHeat:   tailMean(model.SpecificHeat(), s.Tail),
			Susceptibility: tailMean(model.Susceptibility(), s.Tail),
		})
	}

	return track, nil
}

// tailMean averages the last n entries of xs.
func tailMean(xs []float64, n int) float64 {
	if len(xs) == 0 {
		return 0
	}
	if n > len(xs) {
		n = len(xs)
	}
	sum := 0.0
	for _, x := range xs[len(xs)-n:] {
		sum += x
	}
	return sum / float64(n)
}
