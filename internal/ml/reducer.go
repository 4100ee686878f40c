package ml

import (
	"fmt"
	"math"
	"math/rand"
)

// Reducer projects scaled feature vectors onto their top principal
// directions (truncated SVD of the standardized data). Components are
// extracted by power iteration with deflation, seeded for determinism.
type Reducer struct {
	Components        [][]float64 `json:"components"`
	ExplainedVariance float64     `json:"explained_variance"`
}

const (
	reducerSeed  = 42
	powerIters   = 60
	powerEpsilon = 1e-9
)

func FitReducer(rows [][]float64, nComponents int) (*Reducer, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("fit reducer: empty input")
	}
	dim := len(rows[0])
	if nComponents >= dim {
		nComponents = dim - 1
	}
	if nComponents < 1 {
		nComponents = 1
	}

	// Work on a copy; deflation mutates the data.
	data := make([][]float64, len(rows))
	for i, row := range rows {
		data[i] = append([]float64(nil), row...)
	}

	var totalVar float64
	for _, row := range data {
		for _, v := range row {
			totalVar += v * v
		}
	}

	rng := rand.New(rand.NewSource(reducerSeed))
	components := make([][]float64, 0, nComponents)
	var captured float64

	for c := 0; c < nComponents; c++ {
		comp, sigma2 := topDirection(data, dim, rng)
		if comp == nil {
			break
		}
		components = append(components, comp)
		captured += sigma2
		deflate(data, comp)
	}

	explained := 0.0
	if totalVar > 0 {
		explained = captured / totalVar
	}
	return &Reducer{Components: components, ExplainedVariance: explained}, nil
}

// topDirection finds the dominant right singular vector of the data matrix
// by power iteration on X^T X, returning it with its singular value squared.
func topDirection(data [][]float64, dim int, rng *rand.Rand) ([]float64, float64) {
	v := make([]float64, dim)
	for j := range v {
		v[j] = rng.NormFloat64()
	}
	normalize(v)

	var lambda float64
	for iter := 0; iter < powerIters; iter++ {
		// w = X^T (X v)
		w := make([]float64, dim)
		for _, row := range data {
			var p float64
			for j, rv := range row {
				p += rv * v[j]
			}
			for j, rv := range row {
				w[j] += rv * p
			}
		}
		next := math.Sqrt(dotSelf(w))
		if next < powerEpsilon {
			return nil, 0
		}
		for j := range w {
			w[j] /= next
		}
		if math.Abs(next-lambda) < powerEpsilon {
			v = w
			lambda = next
			break
		}
		v = w
		lambda = next
	}
	return v, lambda
}

func deflate(data [][]float64, comp []float64) {
	for _, row := range data {
		var p float64
		for j, v := range row {
			p += v * comp[j]
		}
		for j := range row {
			row[j] -= p * comp[j]
		}
	}
}

// Transform projects one scaled vector into the reduced space.
func (r *Reducer) Transform(v []float64) []float64 {
	if r == nil || len(r.Components) == 0 {
		return nil
	}
	out := make([]float64, len(r.Components))
	for c, comp := range r.Components {
		if len(comp) != len(v) {
			return nil
		}
		var p float64
		for j := range v {
			p += v[j] * comp[j]
		}
		out[c] = p
	}
	return out
}

func normalize(v []float64) {
	n := math.Sqrt(dotSelf(v))
	if n == 0 {
		return
	}
	for j := range v {
		v[j] /= n
	}
}

func dotSelf(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return s
}
