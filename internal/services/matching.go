package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roomie-backend/internal/data/repos"
	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/matching"
	"github.com/yungbote/roomie-backend/internal/ml"
	"github.com/yungbote/roomie-backend/internal/pkg/dbctx"
	"github.com/yungbote/roomie-backend/internal/platform/apierr"
	"github.com/yungbote/roomie-backend/internal/platform/cache"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

const defaultMatchLimit = 10

// MatchingService serves ranked roommate matches and persisted pair
// compatibility scores.
type MatchingService interface {
	GetMatches(ctx context.Context, userID uuid.UUID, limit int) ([]types.RankedMatch, error)
	GetSimpleMatches(ctx context.Context, userID uuid.UUID, limit int) ([]types.RankedMatch, error)
	GetPairCompatibility(ctx context.Context, a, b uuid.UUID) (*types.CompatibilityScore, error)
}

type matchingService struct {
	db      *gorm.DB
	log     *logger.Logger
	users   repos.UserProfileRepo
	compat  repos.CompatibilityScoreRepo
	scorer  *matching.Scorer
	store   *ml.Store
	matches *cache.MatchCache
}

func NewMatchingService(db *gorm.DB, log *logger.Logger, users repos.UserProfileRepo, compat repos.CompatibilityScoreRepo, scorer *matching.Scorer, store *ml.Store, matches *cache.MatchCache) MatchingService {
	return &matchingService{
		db:      db,
		log:     log.With("service", "MatchingService"),
		users:   users,
		compat:  compat,
		scorer:  scorer,
		store:   store,
		matches: matches,
	}
}

// GetMatches ranks every embedded candidate against the user with the full
// score fusion. A trained bundle is required: an empty store gets one
// lazy-load attempt before the request is refused. Results are cached per
// bundle generation, so retraining invalidates stale lists without
// explicit eviction.
func (s *matchingService) GetMatches(ctx context.Context, userID uuid.UUID, limit int) ([]types.RankedMatch, error) {
	if limit <= 0 {
		limit = defaultMatchLimit
	}
	if s.store.Active() == nil {
		loaded, err := s.store.LoadLatest()
		if err != nil {
			return nil, fmt.Errorf("load models: %w", err)
		}
		if !loaded {
			return nil, apierr.New(http.StatusServiceUnavailable, apierr.CodeModelUnavailable,
				fmt.Errorf("no trained models available, train first"))
		}
	}
	user, candidates, err := s.loadEmbedded(ctx, userID)
	if err != nil {
		return nil, err
	}

	generation := s.store.Status().Generation
	if cached, ok := s.matches.Get(ctx, userID, generation, limit); ok {
		return cached, nil
	}

	ranked := s.scorer.Rank(user, candidates, limit)
	s.matches.Set(ctx, userID, generation, limit, ranked)
	return ranked, nil
}

// GetSimpleMatches ranks by raw embedding similarity only, no models and
// no rules. Useful as a baseline and when nothing is trained yet.
func (s *matchingService) GetSimpleMatches(ctx context.Context, userID uuid.UUID, limit int) ([]types.RankedMatch, error) {
	if limit <= 0 {
		limit = defaultMatchLimit
	}
	user, candidates, err := s.loadEmbedded(ctx, userID)
	if err != nil {
		return nil, err
	}

	vec := user.EmbeddingVector()
	out := make([]types.RankedMatch, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == user.ID {
			continue
		}
		sim := ml.Cosine32(vec, c.EmbeddingVector())
		if sim < 0 {
			sim = 0
		}
		out = append(out, types.RankedMatch{
			UserID: c.ID,
			Name:   c.Name,
			Scores: types.MatchScore{EmbeddingSimilarity: sim, FinalScore: sim},
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Scores.FinalScore != out[j].Scores.FinalScore {
			return out[i].Scores.FinalScore > out[j].Scores.FinalScore
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetPairCompatibility scores one pair, persists the breakdown on the
// canonical pair row and returns it.
func (s *matchingService) GetPairCompatibility(ctx context.Context, a, b uuid.UUID) (*types.CompatibilityScore, error) {
	dbc := dbctx.Context{Ctx: ctx}
	pair, err := s.users.GetByIDs(dbc, []uuid.UUID{a, b})
	if err != nil {
		return nil, fmt.Errorf("fetch pair: %w", err)
	}
	if len(pair) != 2 {
		return nil, apierr.New(http.StatusNotFound, apierr.CodeNotFound,
			fmt.Errorf("one or both users not found"))
	}
	u1, u2 := pair[0], pair[1]
	if u1.EmbeddingVector() == nil || u2.EmbeddingVector() == nil {
		return nil, apierr.New(http.StatusBadRequest, apierr.CodeMissingEmbedding,
			fmt.Errorf("both users need embeddings, run preprocessing first"))
	}

	ms := s.scorer.ScorePair(u1, u2)
	row := &types.CompatibilityScore{
		User1ID:             u1.ID,
		User2ID:             u2.ID,
		EmbeddingSimilarity: ms.EmbeddingSimilarity,
		NeighborScore:       ms.NeighborScore,
		ReducedSpaceScore:   ms.ReducedSpaceScore,
		ClassifierScore:     ms.ClassifierScore,
		RuleBasedScore:      ms.RuleBasedScore,
		FinalScore:          ms.FinalScore,
		Explanation:         explain(ms),
	}
	if err := s.compat.UpsertPair(dbc, row); err != nil {
		return nil, fmt.Errorf("persist compatibility score: %w", err)
	}
	return row, nil
}

func (s *matchingService) loadEmbedded(ctx context.Context, userID uuid.UUID) (*types.UserProfile, []*types.UserProfile, error) {
	dbc := dbctx.Context{Ctx: ctx}
	user, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, nil, apierr.New(http.StatusNotFound, apierr.CodeNotFound,
			fmt.Errorf("user %s not found", userID))
	}
	if user.EmbeddingVector() == nil {
		return nil, nil, apierr.New(http.StatusBadRequest, apierr.CodeMissingEmbedding,
			fmt.Errorf("user %s has no embedding, run preprocessing first", userID))
	}
	candidates, err := s.users.GetAllWithEmbeddings(dbc)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch candidates: %w", err)
	}
	return user, candidates, nil
}

func explain(ms types.MatchScore) string {
	var level string
	switch {
	case ms.FinalScore >= 0.8:
		level = "excellent"
	case ms.FinalScore >= 0.65:
		level = "strong"
	case ms.FinalScore >= 0.5:
		level = "moderate"
	default:
		level = "low"
	}
	return fmt.Sprintf("%s compatibility (%.2f): lifestyle rules %.2f, profile similarity %.2f",
		level, ms.FinalScore, ms.RuleBasedScore, ms.EmbeddingSimilarity)
}
