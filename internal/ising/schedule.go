package ising

import "math"

// Schedule maps elapsed simulated time to the temperature and field to apply
// before the next generation. Schedules hold no state the core needs to know
// about; they drive a Model purely through its temperature/field setters.
type Schedule func(t float64) (temperature, field float64)

// Constant holds temperature and field fixed.
func Constant(temperature, field float64) Schedule {
	return func(float64) (float64, float64) {
		return temperature, field
	}
}

// ExponentialCooling decays the temperature from initial toward final at the
// given rate; 1/rate is the time to close about 63% of the gap. The field
// stays constant. Heating works the same way with initial < final.
func ExponentialCooling(initial, final, rate, field float64) Schedule {
	initial = math.Abs(initial)
	final = math.Abs(final)
	rate = math.Abs(rate)
	return func(t float64) (float64, float64) {
		return final + (initial-final)*math.Exp(-rate*t), field
	}
}

// LinearHeating raises the temperature by step once every interval seconds,
// starting from start. The field stays constant.
func LinearHeating(start, step, interval, field float64) Schedule {
	if interval <= 0 {
		interval = 1
	}
	return func(t float64) (float64, float64) {
		return start + step*math.Floor(t/interval), field
	}
}

// SineField holds the temperature fixed and oscillates the field with the
// given amplitude and angular frequency.
func SineField(temperature, amplitude, omega float64) Schedule {
	return func(t float64) (float64, float64) {
		return temperature, amplitude * math.Sin(omega*t)
	}
}
