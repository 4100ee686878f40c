package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/roomie-backend/internal/allocation"
	"github.com/yungbote/roomie-backend/internal/matching"
	"github.com/yungbote/roomie-backend/internal/ml"
	"github.com/yungbote/roomie-backend/internal/platform/cache"
	"github.com/yungbote/roomie-backend/internal/platform/embeddings"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
	"github.com/yungbote/roomie-backend/internal/services"
)

type Services struct {
	Survey     services.SurveyService
	Preprocess services.PreprocessService
	Training   services.TrainingService
	Matching   services.MatchingService
	Allocation services.AllocationService

	ModelStore *ml.Store
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")

	embedder := embeddings.NewFromEnv(log)
	matchCache := cache.NewFromEnv(log)

	store := ml.NewStore(log, cfg.Models)
	if loaded, err := store.LoadLatest(); err != nil {
		log.Warn("loading saved models failed", "error", err)
	} else if !loaded {
		log.Info("no saved models found, starting unscored")
	}

	scorer := matching.NewScorer(log, store, cfg.Weights)
	allocator := allocation.New(log, cfg.Thresholds)

	return Services{
		Survey:     services.NewSurveyService(db, log, reposet.UserProfile, reposet.Room, embedder, matchCache),
		Preprocess: services.NewPreprocessService(db, log, reposet.UserProfile, embedder, matchCache, cfg.Models.MinCorpus),
		Training:   services.NewTrainingService(db, log, reposet.UserProfile, store),
		Matching:   services.NewMatchingService(db, log, reposet.UserProfile, reposet.CompatibilityScore, scorer, store, matchCache),
		Allocation: services.NewAllocationService(db, log, reposet.UserProfile, reposet.Room, reposet.RoomAssignment, allocator),
		ModelStore: store,
	}
}
