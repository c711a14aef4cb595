// internal/ensemble/aggregate.go
package ensemble

import (
	"math"
)

// Summary holds the derived series for one location.
type Summary struct {
	Replicas     int       `json:"replicas"`
	Steps        int       `json:"steps"`
	Mean         []float64 `json:"mean"`
	Std          []float64 `json:"std"`
	Lower        []float64 `json:"lower"`
	Upper        []float64 `json:"upper"`
	HasReference bool      `json:"has_reference"`
	Reference    []float64 `json:"reference,omitempty"`
	Residual     []float64 `json:"residual,omitempty"`
	RMSE         float64   `json:"rmse"`
	MAD          float64   `json:"mad"`
}

// Aggregate computes the mean trace, spread band and, when ref is non-nil,
// the residual statistics against it.
func Aggregate(traces Traces, ref []float64) (Summary, error) {
	if traces.Size() == 0 {
		return Summary{}, ErrNoReplicas
	}

	mean, std := traces.MeanStd()
	lower, upper := traces.Band()
	summary := Summary{
		Replicas: traces.Size(),
		Steps:    traces.Len(),
		Mean:     mean,
		Std:      std,
		Lower:    lower,
		Upper:    upper,
		RMSE:     math.NaN(),
		MAD:      math.NaN(),
	}
	if ref == nil {
		return summary, nil
	}

	residual, err := Residual(mean, ref)
	if err != nil {
		return Summary{}, err
	}
	summary.HasReference = true
	summary.Reference = ref
	summary.Residual = residual
	summary.RMSE = RMSE(residual)
	summary.MAD = MeanAbsDeviation(residual)
	return summary, nil
}

// Final returns the last-step mean and std, or NaN for an empty summary.
func (s Summary) Final() (mean, std float64) {
	if len(s.Mean) == 0 {
		return math.NaN(), math.NaN()
	}
	last := len(s.Mean) - 1
	return s.Mean[last], s.Std[last]
}

// Frame is the cross-replica distribution at one timestep.
type Frame struct {
	Step         int
	Values       []float64
	HasReference bool
	Reference    float64
}

// Frame returns the replica values at step plus the reference value, if any.
func (t Traces) Frame(step int, ref []float64) Frame {
	f := Frame{Step: step, Values: t.At(step)}
	if step >= 0 && step < len(ref) {
		f.HasReference = true
		f.Reference = ref[step]
	}
	return f
}

// Range accumulates every replica value and reference value into one RunningStat.
func (t Traces) Range(ref []float64) RunningStat {
	var rs RunningStat
	for _, trace := range t.Values {
		for _, v := range trace {
			rs.Add(v)
		}
	}
	for _, v := range ref {
		rs.Add(v)
	}
	return rs
}
