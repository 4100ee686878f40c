package services

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/roomie-backend/internal/data/repos"
	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/pkg/dbctx"
	"github.com/yungbote/roomie-backend/internal/platform/apierr"
	"github.com/yungbote/roomie-backend/internal/platform/cache"
	"github.com/yungbote/roomie-backend/internal/platform/embeddings"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

const embedConcurrency = 4

type PreprocessReport struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

type CorpusStats struct {
	TotalUsers     int64 `json:"total_users"`
	WithEmbeddings int64 `json:"users_with_embeddings"`
	MinRequired    int   `json:"min_required_for_training"`
	Ready          bool  `json:"ready_for_training"`
}

// PreprocessService backfills embedding vectors for stored profiles.
type PreprocessService interface {
	PreprocessAll(ctx context.Context) (*PreprocessReport, error)
	PreprocessUser(ctx context.Context, id uuid.UUID) (*types.UserProfile, error)
	Stats(ctx context.Context) (*CorpusStats, error)
}

type preprocessService struct {
	db        *gorm.DB
	log       *logger.Logger
	users     repos.UserProfileRepo
	embedder  embeddings.Client
	matches   *cache.MatchCache
	minCorpus int
}

func NewPreprocessService(db *gorm.DB, log *logger.Logger, users repos.UserProfileRepo, embedder embeddings.Client, matches *cache.MatchCache, minCorpus int) PreprocessService {
	return &preprocessService{
		db:        db,
		log:       log.With("service", "PreprocessService"),
		users:     users,
		embedder:  embedder,
		matches:   matches,
		minCorpus: minCorpus,
	}
}

// PreprocessAll embeds every profile that lacks a vector. Users are
// processed concurrently; one failed embedding is counted, logged and
// skipped rather than failing the batch.
func (s *preprocessService) PreprocessAll(ctx context.Context) (*PreprocessReport, error) {
	all, err := s.users.GetAll(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("fetch profiles: %w", err)
	}

	var processed, skipped, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for _, u := range all {
		u := u
		if u.EmbeddingVector() != nil {
			skipped.Add(1)
			continue
		}
		g.Go(func() error {
			if err := s.embedOne(gctx, u); err != nil {
				s.log.Warn("preprocess failed for user", "user", u.ID, "error", err)
				failed.Add(1)
				return nil
			}
			processed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &PreprocessReport{
		Processed: int(processed.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
		Total:     len(all),
	}
	s.log.Info("preprocessing finished",
		"processed", report.Processed, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

func (s *preprocessService) PreprocessUser(ctx context.Context, id uuid.UUID) (*types.UserProfile, error) {
	profile, err := s.users.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return nil, apierr.New(http.StatusNotFound, apierr.CodeNotFound,
			fmt.Errorf("user %s not found", id))
	}
	if err := s.embedOne(ctx, profile); err != nil {
		return nil, fmt.Errorf("embed profile: %w", err)
	}
	return profile, nil
}

func (s *preprocessService) embedOne(ctx context.Context, u *types.UserProfile) error {
	vecs, err := s.embedder.Embed(ctx, []string{embeddings.ProfileText(u)})
	if err != nil {
		return err
	}
	if len(vecs) != 1 {
		return fmt.Errorf("expected 1 embedding, got %d", len(vecs))
	}
	if err := u.SetEmbedding(vecs[0]); err != nil {
		return err
	}
	if err := s.users.UpdateFields(dbctx.Context{Ctx: ctx}, u.ID, map[string]interface{}{
		"embedding_vector": u.Embedding,
	}); err != nil {
		return err
	}
	s.matches.Invalidate(ctx, u.ID)
	return nil
}

func (s *preprocessService) Stats(ctx context.Context) (*CorpusStats, error) {
	dbc := dbctx.Context{Ctx: ctx}
	all, err := s.users.GetAll(dbc)
	if err != nil {
		return nil, fmt.Errorf("fetch profiles: %w", err)
	}
	withEmbeddings, err := s.users.CountWithEmbeddings(dbc)
	if err != nil {
		return nil, fmt.Errorf("count embeddings: %w", err)
	}
	return &CorpusStats{
		TotalUsers:     int64(len(all)),
		WithEmbeddings: withEmbeddings,
		MinRequired:    s.minCorpus,
		Ready:          withEmbeddings >= int64(s.minCorpus),
	}, nil
}
