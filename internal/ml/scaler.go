package ml

import (
	"fmt"
	"math"
)

// Scaler standardizes features to zero mean and unit variance. It is fit
// once per training run and shared by every sub-model and inference path.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

func FitScaler(rows [][]float64) (*Scaler, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("fit scaler: empty input")
	}
	dim := len(rows[0])
	mean := make([]float64, dim)
	std := make([]float64, dim)

	for _, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("fit scaler: ragged row (%d != %d)", len(row), dim)
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}
	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
		if std[j] == 0 {
			std[j] = 1
		}
	}
	return &Scaler{Mean: mean, Std: std}, nil
}

func (s *Scaler) Transform(v []float64) []float64 {
	if s == nil || len(v) != len(s.Mean) {
		return v
	}
	out := make([]float64, len(v))
	for j := range v {
		out[j] = (v[j] - s.Mean[j]) / s.Std[j]
	}
	return out
}

func (s *Scaler) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
