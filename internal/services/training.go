package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/roomie-backend/internal/data/repos"
	"github.com/yungbote/roomie-backend/internal/ml"
	"github.com/yungbote/roomie-backend/internal/pkg/dbctx"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

type TrainingRequirements struct {
	UsersCount  int64 `json:"users_count"`
	MinRequired int   `json:"min_required"`
	Ready       bool  `json:"ready"`
}

// TrainingService drives model training and bundle lifecycle against the
// stored corpus.
type TrainingService interface {
	Train(ctx context.Context) (*ml.TrainingReport, error)
	Load(ctx context.Context) (bool, error)
	Status() ml.Status
	Requirements(ctx context.Context) (*TrainingRequirements, error)
}

type trainingService struct {
	db    *gorm.DB
	log   *logger.Logger
	users repos.UserProfileRepo
	store *ml.Store
}

func NewTrainingService(db *gorm.DB, log *logger.Logger, users repos.UserProfileRepo, store *ml.Store) TrainingService {
	return &trainingService{
		db:    db,
		log:   log.With("service", "TrainingService"),
		users: users,
		store: store,
	}
}

// Train fits a new bundle from every profile that has an embedding. The
// corpus-size check lives in the store so callers get a consistent error.
func (s *trainingService) Train(ctx context.Context) (*ml.TrainingReport, error) {
	corpus, err := s.users.GetAllWithEmbeddings(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("fetch corpus: %w", err)
	}
	return s.store.Train(ctx, corpus)
}

func (s *trainingService) Load(_ context.Context) (bool, error) {
	return s.store.LoadLatest()
}

func (s *trainingService) Status() ml.Status {
	return s.store.Status()
}

func (s *trainingService) Requirements(ctx context.Context) (*TrainingRequirements, error) {
	count, err := s.users.CountWithEmbeddings(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("count corpus: %w", err)
	}
	return &TrainingRequirements{
		UsersCount:  count,
		MinRequired: s.store.MinCorpus(),
		Ready:       count >= int64(s.store.MinCorpus()),
	}, nil
}
