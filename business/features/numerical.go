package features

import "math"

// columnScaler is a per-column stateful scaler. It fits on the first
// batch it sees and reuses those parameters for every later call.
type columnScaler struct {
	method string
	fitted bool

	mean, std float64 // standard scaling
	min, max  float64 // minmax scaling
}

func newColumnScaler(method string) *columnScaler {
	return &columnScaler{method: method}
}

func (s *columnScaler) fit(values []float64) {
	if s.fitted || len(values) == 0 {
		return
	}

	switch s.method {
	case "minmax":
		s.min, s.max = values[0], values[0]
		for _, v := range values {
			if v < s.min {
				s.min = v
			}
			if v > s.max {
				s.max = v
			}
		}
	default: // standard
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		s.mean = sum / float64(len(values))

		variance := 0.0
		for _, v := range values {
			d := v - s.mean
			variance += d * d
		}
		s.std = math.Sqrt(variance / float64(len(values)))
	}

	s.fitted = true
}

func (s *columnScaler) transform(v float64) float64 {
	switch s.method {
	case "minmax":
		span := s.max - s.min
		if span == 0 {
			return 0
		}
		return (v - s.min) / span
	default:
		std := s.std
		if std == 0 {
			std = 1
		}
		return (v - s.mean) / std
	}
}

// batchMean averages the present values of a column within the current
// batch. Missing values are imputed with this batch mean rather than a
// stored training-time mean; that is the contract, not an oversight.
func batchMean(values []float64, present []bool) float64 {
	sum, n := 0.0, 0
	for i, v := range values {
		if present[i] {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
