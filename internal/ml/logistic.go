package ml

import (
	"fmt"
	"math"
)

// Logistic is a binary classifier trained by batch gradient descent with a
// small L2 penalty. Deterministic: no random initialization.
type Logistic struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

const (
	logisticIters = 400
	logisticRate  = 0.1
	logisticL2    = 1e-4
)

func FitLogistic(x [][]float64, y []int) (*Logistic, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("fit logistic: %d rows, %d labels", len(x), len(y))
	}
	dim := len(x[0])
	w := make([]float64, dim)
	var b float64
	n := float64(len(x))

	for iter := 0; iter < logisticIters; iter++ {
		grad := make([]float64, dim)
		var gradB float64
		for i, row := range x {
			p := sigmoid(dotBias(w, b, row))
			d := p - float64(y[i])
			for j, v := range row {
				grad[j] += d * v
			}
			gradB += d
		}
		for j := range w {
			w[j] -= logisticRate * (grad[j]/n + logisticL2*w[j])
		}
		b -= logisticRate * gradB / n
	}
	return &Logistic{Weights: w, Bias: b}, nil
}

// PredictProba returns the probability of the positive class.
func (m *Logistic) PredictProba(v []float64) float64 {
	if m == nil || len(v) != len(m.Weights) {
		return 0
	}
	return sigmoid(dotBias(m.Weights, m.Bias, v))
}

func (m *Logistic) Predict(v []float64) int {
	if m.PredictProba(v) >= 0.5 {
		return 1
	}
	return 0
}

func dotBias(w []float64, b float64, v []float64) float64 {
	s := b
	for j := range w {
		s += w[j] * v[j]
	}
	return s
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
