package features

import (
	"math"

	types "github.com/yungbote/roomie-backend/internal/domain"
)

// Dim is the full feature vector length: embedding + age + four categorical
// slots. The categorical slot order is fixed (sleep, cleanliness, noise,
// social) and must stay identical between training and inference.
const Dim = types.EmbeddingDim + 1 + 4

// PairDim is the pair feature length: both vectors plus |a-b|.
const PairDim = 3 * Dim

var sleepEncoding = map[string]float64{
	"early_bird": 0.0,
	"night_owl":  1.0,
	"flexible":   0.5,
}

var cleanlinessEncoding = map[string]float64{
	"very_clean":   1.0,
	"clean":        0.75,
	"moderate":     0.5,
	"relaxed":      0.25,
	"very_relaxed": 0.0,
}

var noiseEncoding = map[string]float64{
	"very_quiet":    0.0,
	"quiet":         0.25,
	"moderate":      0.5,
	"tolerant":      0.75,
	"very_tolerant": 1.0,
}

var socialEncoding = map[string]float64{
	"very_social":  1.0,
	"social":       0.75,
	"moderate":     0.5,
	"private":      0.25,
	"very_private": 0.0,
}

func encode(table map[string]float64, value string) float64 {
	if v, ok := table[value]; ok {
		return v
	}
	return 0.5
}

// Build maps a user to its fixed-length feature vector. Pure and
// deterministic: a missing embedding becomes a zero block, a missing age
// becomes 0.5, unknown categories fall back to the table midpoint.
func Build(u *types.UserProfile) []float64 {
	out := make([]float64, 0, Dim)

	if emb := u.EmbeddingVector(); emb != nil {
		for _, v := range emb {
			out = append(out, float64(v))
		}
	} else {
		out = append(out, make([]float64, types.EmbeddingDim)...)
	}

	if u.Age != nil {
		out = append(out, float64(*u.Age)/100.0)
	} else {
		out = append(out, 0.5)
	}

	out = append(out,
		encode(sleepEncoding, u.SleepSchedule),
		encode(cleanlinessEncoding, u.CleanlinessLevel),
		encode(noiseEncoding, u.NoiseTolerance),
		encode(socialEncoding, u.SocialPreference),
	)
	return out
}

// BuildPair concatenates both users' vectors with their element-wise
// absolute difference. Only the binary classifier consumes this shape.
func BuildPair(u1, u2 *types.UserProfile) []float64 {
	f1 := Build(u1)
	f2 := Build(u2)
	return CombinePair(f1, f2)
}

// CombinePair builds the pair layout from two prebuilt vectors.
func CombinePair(f1, f2 []float64) []float64 {
	out := make([]float64, 0, 3*len(f1))
	out = append(out, f1...)
	out = append(out, f2...)
	for i := range f1 {
		out = append(out, math.Abs(f1[i]-f2[i]))
	}
	return out
}

// Ordinal scales used for "adjacent" (distance <= 1) category comparisons.

var cleanlinessOrdinal = map[string]int{
	"very_clean":   4,
	"clean":        3,
	"moderate":     2,
	"relaxed":      1,
	"very_relaxed": 0,
}

var noiseOrdinal = map[string]int{
	"very_quiet":    0,
	"quiet":         1,
	"moderate":      2,
	"tolerant":      3,
	"very_tolerant": 4,
}

var socialOrdinal = map[string]int{
	"very_private": 0,
	"private":      1,
	"moderate":     2,
	"social":       3,
	"very_social":  4,
}

func ordinal(table map[string]int, value string) int {
	if v, ok := table[value]; ok {
		return v
	}
	return 2
}

func CleanlinessOrdinal(v string) int { return ordinal(cleanlinessOrdinal, v) }
func NoiseOrdinal(v string) int       { return ordinal(noiseOrdinal, v) }
func SocialOrdinal(v string) int      { return ordinal(socialOrdinal, v) }
