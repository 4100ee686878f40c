package matching

import (
	"sort"

	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/ml"
	"github.com/yungbote/roomie-backend/internal/ml/features"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

// Weights are the fusion weights for the five sub-scores. The fused score
// is normalized by the sum of weights whose backing model is loaded.
type Weights struct {
	Embedding  float64 `yaml:"embedding"`
	Neighbor   float64 `yaml:"neighbor"`
	Reduced    float64 `yaml:"reduced"`
	Classifier float64 `yaml:"classifier"`
	Rule       float64 `yaml:"rule"`
}

func DefaultWeights() Weights {
	return Weights{
		Embedding:  0.30,
		Neighbor:   0.20,
		Reduced:    0.15,
		Classifier: 0.20,
		Rule:       0.15,
	}
}

// Scorer fuses model-backed and rule-based sub-scores into one ranking
// score per pair.
type Scorer struct {
	log     *logger.Logger
	store   *ml.Store
	weights Weights
}

func NewScorer(log *logger.Logger, store *ml.Store, weights Weights) *Scorer {
	return &Scorer{log: log.With("component", "MatchScorer"), store: store, weights: weights}
}

// ScorePair scores one pair against the currently active model bundle.
func (s *Scorer) ScorePair(u1, u2 *types.UserProfile) types.MatchScore {
	return s.scoreWith(s.store.Active(), u1, u2)
}

// scoreWith binds every sub-score to one bundle generation. A failure in
// any individual sub-score degrades that sub-score to 0 and scoring
// continues.
func (s *Scorer) scoreWith(b *ml.Bundle, u1, u2 *types.UserProfile) types.MatchScore {
	var out types.MatchScore

	out.EmbeddingSimilarity = s.safe("embedding_similarity", u1, u2, func() float64 {
		return clamp01(ml.Cosine32(u1.EmbeddingVector(), u2.EmbeddingVector()))
	})

	if neighborsLoaded(b) {
		out.NeighborScore = s.safe("neighbor_score", u1, u2, func() float64 {
			return neighborScore(b, u1, u2)
		})
	}
	if reducerLoaded(b) {
		out.ReducedSpaceScore = s.safe("reduced_space_score", u1, u2, func() float64 {
			return reducedScore(b, u1, u2)
		})
	}
	if classifierLoaded(b) {
		out.ClassifierScore = s.safe("classifier_score", u1, u2, func() float64 {
			pairVec := features.CombinePair(
				b.Scaler.Transform(features.Build(u1)),
				b.Scaler.Transform(features.Build(u2)),
			)
			return clamp01(b.Classifier.PredictProba(pairVec))
		})
	}

	out.RuleBasedScore = s.safe("rule_based_score", u1, u2, func() float64 {
		return features.RuleScore(u1, u2)
	})

	out.FinalScore = s.fuse(b, out)
	return out
}

// fuse computes the availability-weighted sum: a model-backed sub-score
// only enters the denominator when its model is loaded.
func (s *Scorer) fuse(b *ml.Bundle, ms types.MatchScore) float64 {
	sum := s.weights.Embedding*ms.EmbeddingSimilarity + s.weights.Rule*ms.RuleBasedScore
	total := s.weights.Embedding + s.weights.Rule

	if neighborsLoaded(b) {
		sum += s.weights.Neighbor * ms.NeighborScore
		total += s.weights.Neighbor
	}
	if reducerLoaded(b) {
		sum += s.weights.Reduced * ms.ReducedSpaceScore
		total += s.weights.Reduced
	}
	if classifierLoaded(b) {
		sum += s.weights.Classifier * ms.ClassifierScore
		total += s.weights.Classifier
	}
	if total == 0 {
		return 0
	}
	return clamp01(sum / total)
}

// Rank scores the user against every candidate, sorts descending by final
// score with stable ties broken by ascending candidate id, and truncates.
func (s *Scorer) Rank(user *types.UserProfile, candidates []*types.UserProfile, limit int) []types.RankedMatch {
	b := s.store.Active()
	out := make([]types.RankedMatch, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == user.ID {
			continue
		}
		out = append(out, types.RankedMatch{
			UserID: c.ID,
			Name:   c.Name,
			Scores: s.scoreWith(b, user, c),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Scores.FinalScore != out[j].Scores.FinalScore {
			return out[i].Scores.FinalScore > out[j].Scores.FinalScore
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func neighborScore(b *ml.Bundle, u1, u2 *types.UserProfile) float64 {
	scaled := b.Scaler.Transform(features.Build(u1))
	for _, n := range b.Neighbors.Query(scaled) {
		if n.UserID == u2.ID {
			if v := 1 - n.Distance; v > 0 {
				return clamp01(v)
			}
			return 0
		}
	}
	return 0
}

func reducedScore(b *ml.Bundle, u1, u2 *types.UserProfile) float64 {
	r1 := b.Reducer.Transform(b.Scaler.Transform(features.Build(u1)))
	r2 := b.Reducer.Transform(b.Scaler.Transform(features.Build(u2)))
	return clamp01(ml.Cosine(r1, r2))
}

// safe runs one sub-score computation; a panic degrades the sub-score to 0
// so one faulty model never blocks a full ranking.
func (s *Scorer) safe(name string, u1, u2 *types.UserProfile, fn func() float64) (v float64) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("sub-score computation failed",
				"score", name, "user1", u1.ID, "user2", u2.ID, "panic", r)
			v = 0
		}
	}()
	return clamp01(fn())
}

func neighborsLoaded(b *ml.Bundle) bool {
	return b != nil && b.Neighbors != nil && b.Scaler != nil
}

func reducerLoaded(b *ml.Bundle) bool {
	return b != nil && b.Reducer != nil && b.Scaler != nil
}

func classifierLoaded(b *ml.Bundle) bool {
	return b != nil && b.Classifier != nil && b.Scaler != nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
