package ml

import (
	"math"
	"testing"
)

func TestFitScaler(t *testing.T) {
	rows := [][]float64{
		{1, 10},
		{3, 10},
	}
	s, err := FitScaler(rows)
	if err != nil {
		t.Fatalf("FitScaler: %v", err)
	}
	if s.Mean[0] != 2 || s.Mean[1] != 10 {
		t.Fatalf("mean: got %v", s.Mean)
	}
	if s.Std[0] != 1 {
		t.Fatalf("std[0]: expected 1, got %v", s.Std[0])
	}
	// Zero-variance column gets std 1 so Transform is defined everywhere.
	if s.Std[1] != 1 {
		t.Fatalf("std[1]: expected 1 for constant column, got %v", s.Std[1])
	}

	out := s.Transform([]float64{1, 10})
	if out[0] != -1 || out[1] != 0 {
		t.Fatalf("transform: got %v", out)
	}
}

func TestFitScalerEmpty(t *testing.T) {
	if _, err := FitScaler(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := FitScaler([][]float64{{1, 2}, {1}}); err == nil {
		t.Fatal("expected error for ragged input")
	}
}

func TestScalerTransformDimensionMismatch(t *testing.T) {
	s := &Scaler{Mean: []float64{0, 0}, Std: []float64{1, 1}}
	v := []float64{1, 2, 3}
	if got := s.Transform(v); len(got) != 3 {
		t.Fatalf("mismatched input should pass through, got %v", got)
	}
}

func TestLogisticSeparable(t *testing.T) {
	x := [][]float64{
		{-2, -1}, {-1.5, -0.5}, {-1, -1}, {-2.5, -2},
		{2, 1}, {1.5, 0.5}, {1, 1}, {2.5, 2},
	}
	y := []int{0, 0, 0, 0, 1, 1, 1, 1}

	m, err := FitLogistic(x, y)
	if err != nil {
		t.Fatalf("FitLogistic: %v", err)
	}
	for i, row := range x {
		if got := m.Predict(row); got != y[i] {
			t.Errorf("row %d: expected %d, got %d (p=%v)", i, y[i], got, m.PredictProba(row))
		}
	}
	if p := m.PredictProba([]float64{3, 3}); p <= 0.5 {
		t.Errorf("far positive point: expected p > 0.5, got %v", p)
	}
}

func TestLogisticProbaBounds(t *testing.T) {
	m := &Logistic{Weights: []float64{10, -10}, Bias: 0.5}
	for _, v := range [][]float64{{100, -100}, {-100, 100}, {0, 0}} {
		p := m.PredictProba(v)
		if p < 0 || p > 1 || math.IsNaN(p) {
			t.Fatalf("probability out of range: %v", p)
		}
	}
}

func TestCosine(t *testing.T) {
	if got := Cosine([]float64{1, 0}, []float64{1, 0}); got != 1 {
		t.Fatalf("parallel: expected 1, got %v", got)
	}
	if got := Cosine([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Fatalf("orthogonal: expected 0, got %v", got)
	}
	if got := Cosine([]float64{1, 0}, []float64{0, 0}); got != 0 {
		t.Fatalf("zero norm: expected 0, got %v", got)
	}
	if got := Cosine([]float64{1}, []float64{1, 2}); got != 0 {
		t.Fatalf("mismatched dims: expected 0, got %v", got)
	}
}
