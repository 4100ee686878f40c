package ml

import (
	"sort"

	"github.com/google/uuid"
)

// NeighborIndex is a brute-force cosine kNN index over scaled feature
// vectors. IDs is the position→user-id table built at training time; query
// results carry user ids, never raw positions.
type NeighborIndex struct {
	K       int         `json:"k"`
	IDs     []uuid.UUID `json:"ids"`
	Vectors [][]float64 `json:"vectors"`
}

type Neighbor struct {
	UserID   uuid.UUID
	Distance float64
}

func FitNeighborIndex(k int, ids []uuid.UUID, vectors [][]float64) *NeighborIndex {
	if k <= 0 {
		k = 5
	}
	return &NeighborIndex{K: k, IDs: ids, Vectors: vectors}
}

// Query returns the k nearest training users by cosine distance (1 - sim).
func (ix *NeighborIndex) Query(v []float64) []Neighbor {
	if ix == nil || len(ix.Vectors) == 0 {
		return nil
	}
	out := make([]Neighbor, 0, len(ix.Vectors))
	for i, ref := range ix.Vectors {
		out = append(out, Neighbor{
			UserID:   ix.IDs[i],
			Distance: 1 - Cosine(v, ref),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	if len(out) > ix.K {
		out = out[:ix.K]
	}
	return out
}
