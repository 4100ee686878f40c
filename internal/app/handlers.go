package app

import (
	"github.com/yungbote/roomie-backend/internal/handlers"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

type Handlers struct {
	Survey     *handlers.SurveyHandler
	Preprocess *handlers.PreprocessHandler
	Training   *handlers.TrainingHandler
	Matching   *handlers.MatchingHandler
	Allocation *handlers.AllocationHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Survey:     handlers.NewSurveyHandler(log, serviceset.Survey),
		Preprocess: handlers.NewPreprocessHandler(log, serviceset.Preprocess),
		Training:   handlers.NewTrainingHandler(log, serviceset.Training),
		Matching:   handlers.NewMatchingHandler(log, serviceset.Matching),
		Allocation: handlers.NewAllocationHandler(log, serviceset.Allocation),
	}
}
