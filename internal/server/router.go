package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomie-backend/internal/handlers"
)

type RouterConfig struct {
	SurveyHandler     *handlers.SurveyHandler
	PreprocessHandler *handlers.PreprocessHandler
	TrainingHandler   *handlers.TrainingHandler
	MatchingHandler   *handlers.MatchingHandler
	AllocationHandler *handlers.AllocationHandler
	AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api/v1")
	{
		// Survey + inventory
		api.POST("/survey", cfg.SurveyHandler.SubmitSurvey)
		api.GET("/users", cfg.SurveyHandler.ListUsers)
		api.GET("/users/:id", cfg.SurveyHandler.GetUser)
		api.POST("/rooms", cfg.SurveyHandler.CreateRoom)
		api.GET("/rooms", cfg.SurveyHandler.ListRooms)
		api.GET("/rooms/:id/details", cfg.AllocationHandler.RoomDetails)

		// Preprocessing
		api.POST("/preprocess", cfg.PreprocessHandler.PreprocessAll)
		api.POST("/preprocess/:id", cfg.PreprocessHandler.PreprocessUser)
		api.GET("/preprocess/stats", cfg.PreprocessHandler.Stats)

		// Models
		api.POST("/models/train", cfg.TrainingHandler.Train)
		api.POST("/models/load", cfg.TrainingHandler.Load)
		api.GET("/models/status", cfg.TrainingHandler.Status)
		api.GET("/models/requirements", cfg.TrainingHandler.Requirements)

		// Matching
		api.GET("/matches/:id", cfg.MatchingHandler.GetMatches)
		api.GET("/matches/:id/simple", cfg.MatchingHandler.GetSimpleMatches)
		api.GET("/compatibility/:id1/:id2", cfg.MatchingHandler.GetPairCompatibility)

		// Allocation
		api.POST("/allocations", cfg.AllocationHandler.AllocateAll)
		api.POST("/allocations/:id", cfg.AllocationHandler.AllocateUser)
		api.GET("/allocations/status", cfg.AllocationHandler.Status)
		api.DELETE("/allocations/:id", cfg.AllocationHandler.RemoveAssignment)
	}

	return router
}
