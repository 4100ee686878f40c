package ml

import (
	"testing"

	"github.com/google/uuid"
)

func TestNeighborIndexQuery(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	vectors := [][]float64{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 0, 1},
	}
	ix := FitNeighborIndex(2, ids, vectors)

	got := ix.Query([]float64{1, 0, 0})
	if len(got) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(got))
	}
	if got[0].UserID != ids[0] {
		t.Errorf("nearest: expected %s, got %s", ids[0], got[0].UserID)
	}
	if got[1].UserID != ids[1] {
		t.Errorf("second: expected %s, got %s", ids[1], got[1].UserID)
	}
	if got[0].Distance > got[1].Distance {
		t.Error("results must be sorted by ascending distance")
	}
}

func TestNeighborIndexEmpty(t *testing.T) {
	var ix *NeighborIndex
	if got := ix.Query([]float64{1}); got != nil {
		t.Fatalf("nil index: expected nil, got %v", got)
	}
}

func TestReducerRoundtrip(t *testing.T) {
	rows := [][]float64{
		{2, 0, 0.1},
		{-2, 0, -0.1},
		{1.5, 0.2, 0},
		{-1.5, -0.2, 0},
	}
	r, err := FitReducer(rows, 2)
	if err != nil {
		t.Fatalf("FitReducer: %v", err)
	}
	if len(r.Components) == 0 {
		t.Fatal("expected at least one component")
	}
	if r.ExplainedVariance <= 0 || r.ExplainedVariance > 1+1e-9 {
		t.Fatalf("explained variance out of range: %v", r.ExplainedVariance)
	}

	out := r.Transform(rows[0])
	if len(out) != len(r.Components) {
		t.Fatalf("expected %d reduced dims, got %d", len(r.Components), len(out))
	}

	// The dominant direction is the first axis; opposite rows should project
	// to opposite signs on the first component.
	a := r.Transform(rows[0])
	b := r.Transform(rows[1])
	if a[0]*b[0] >= 0 {
		t.Errorf("opposite rows should have opposite first projections: %v vs %v", a[0], b[0])
	}
}

func TestReducerDeterministic(t *testing.T) {
	rows := [][]float64{
		{1, 2, 3},
		{3, 2, 1},
		{0, 1, 0},
	}
	r1, err := FitReducer(rows, 2)
	if err != nil {
		t.Fatalf("FitReducer: %v", err)
	}
	r2, err := FitReducer(rows, 2)
	if err != nil {
		t.Fatalf("FitReducer: %v", err)
	}
	if len(r1.Components) != len(r2.Components) {
		t.Fatal("component count must be deterministic")
	}
	for c := range r1.Components {
		for j := range r1.Components[c] {
			if r1.Components[c][j] != r2.Components[c][j] {
				t.Fatal("components must be deterministic")
			}
		}
	}
}
