// internal/ensemble/traces.go
package ensemble

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Traces holds one time series per replica for a single column.
// Values is indexed [replica][timestep]; every trace has the same length.
type Traces struct {
	Column   int
	Dirs     []string
	Values   [][]float64
	Excluded []error
}

// Size is the number of replicas.
func (t Traces) Size() int {
	return len(t.Values)
}

// Len is the number of timesteps.
func (t Traces) Len() int {
	if len(t.Values) == 0 {
		return 0
	}
	return len(t.Values[0])
}

// At returns every replica's value at step.
func (t Traces) At(step int) []float64 {
	out := make([]float64, 0, t.Size())
	for _, trace := range t.Values {
		if step >= 0 && step < len(trace) {
			out = append(out, trace[step])
		}
	}
	return out
}

// MeanStd returns the per-timestep mean and population standard deviation.
func (t Traces) MeanStd() (mean, std []float64) {
	n := t.Len()
	mean = make([]float64, n)
	std = make([]float64, n)
	for step := 0; step < n; step++ {
		mean[step], std[step] = stat.PopMeanStdDev(t.At(step), nil)
	}
	return mean, std
}

// Mean returns the per-timestep ensemble mean.
func (t Traces) Mean() []float64 {
	n := t.Len()
	mean := make([]float64, n)
	for step := 0; step < n; step++ {
		mean[step] = stat.Mean(t.At(step), nil)
	}
	return mean
}

// Std returns the per-timestep population standard deviation (ddof=0).
func (t Traces) Std() []float64 {
	_, std := t.MeanStd()
	return std
}

// Band returns mean-std and mean+std per timestep.
func (t Traces) Band() (lower, upper []float64) {
	mean, std := t.MeanStd()
	lower = make([]float64, len(mean))
	upper = make([]float64, len(mean))
	floats.SubTo(lower, mean, std)
	floats.AddTo(upper, mean, std)
	return lower, upper
}

// Residual returns mean-ref per timestep.
func Residual(mean, ref []float64) ([]float64, error) {
	if len(mean) != len(ref) {
		return nil, fmt.Errorf("%w: mean trace has %d steps, reference has %d", ErrSchemaMismatch, len(mean), len(ref))
	}
	out := make([]float64, len(mean))
	floats.SubTo(out, mean, ref)
	return out, nil
}

// RMSE is the square root of the mean squared residual. Non-finite residuals
// are skipped; the result is NaN only when none are finite.
func RMSE(residual []float64) float64 {
	valid := finiteValues(residual)
	if len(valid) == 0 {
		return math.NaN()
	}
	squared := make([]float64, len(valid))
	floats.MulTo(squared, valid, valid)
	return math.Sqrt(stat.Mean(squared, nil))
}

// MeanAbsDeviation is the mean absolute residual over the finite residuals.
func MeanAbsDeviation(residual []float64) float64 {
	valid := finiteValues(residual)
	if len(valid) == 0 {
		return math.NaN()
	}
	return floats.Norm(valid, 1) / float64(len(valid))
}

func finiteValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}
