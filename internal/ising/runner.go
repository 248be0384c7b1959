package ising

import "context"

// DefaultDt is the simulated time per generation, matching the reference
// animation's 100 ms frame interval.
const DefaultDt = 0.1

// Runner steps a Model under an optional Schedule, recording the time,
// temperature, and field trajectory alongside the Model's own histories.
type Runner struct {
	model    *Model
	schedule Schedule
	dt       float64

	times  []float64
	temps  []float64
	fields []float64
}

// NewRunner wraps model with a schedule. A nil schedule leaves temperature and
// field entirely to the caller. A non-positive dt falls back to DefaultDt.
func NewRunner(model *Model, schedule Schedule, dt float64) *Runner {
	if dt <= 0 {
		dt = DefaultDt
	}
	return &Runner{
		model:    model,
		schedule: schedule,
		dt:       dt,
		times:    []float64{0},
		temps:    []float64{model.Temperature()},
		fields:   []float64{model.Field()},
	}
}

func (r *Runner) Model() *Model { return r.model }

// Elapsed returns the simulated time, one dt per completed generation.
func (r *Runner) Elapsed() float64 {
	return float64(r.model.Generation()) * r.dt
}

// Step applies the schedule at the current elapsed time, advances one
// generation, and records the driver trajectory.
func (r *Runner) Step() {
	if r.schedule != nil {
		temp, field := r.schedule(r.Elapsed())
		r.model.SetTemperature(temp)
		r.model.SetField(field)
	}

	r.model.Step()

	r.times = append(r.times, r.Elapsed())
	r.temps = append(r.temps, r.model.Temperature())
	r.fields = append(r.fields, r.model.Field())
}

// Run advances n generations, checking ctx between steps. A sweep in flight
// is never interrupted; cancellation takes effect at the next step boundary.
func (r *Runner) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.Step()
	}
	return nil
}

// Times returns the elapsed-time trajectory, one entry per generation
// starting at generation zero.
func (r *Runner) Times() []float64 { return r.times }

// Temperatures returns the applied temperature trajectory.
func (r *Runner) Temperatures() []float64 { return r.temps }

// Fields returns the applied field trajectory.
func (r *Runner) Fields() []float64 { return r.fields }
