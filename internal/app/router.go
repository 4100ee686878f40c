package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomie-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		SurveyHandler:     handlerset.Survey,
		PreprocessHandler: handlerset.Preprocess,
		TrainingHandler:   handlerset.Training,
		MatchingHandler:   handlerset.Matching,
		AllocationHandler: handlerset.Allocation,
		AllowOrigins:      cfg.AllowOrigins,
	})
}
