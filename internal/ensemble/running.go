// internal/ensemble/running.go
package ensemble

import "math"

// RunningStat holds the necessary values for online calculation of mean, variance and range.
type RunningStat struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Add folds value into the statistic using Welford's online algorithm. NaNs are ignored.
func (rs *RunningStat) Add(value float64) {
	if math.IsNaN(value) {
		return
	}
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}

// PopStdDev returns the population standard deviation seen so far.
func (rs RunningStat) PopStdDev() float64 {
	if rs.Count == 0 {
		return math.NaN()
	}
	return math.Sqrt(rs.M2 / float64(rs.Count))
}
