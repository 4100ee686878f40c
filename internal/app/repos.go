package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/roomie-backend/internal/data/repos"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

type Repos struct {
	UserProfile        repos.UserProfileRepo
	Room               repos.RoomRepo
	RoomAssignment     repos.RoomAssignmentRepo
	CompatibilityScore repos.CompatibilityScoreRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		UserProfile:        repos.NewUserProfileRepo(db, log),
		Room:               repos.NewRoomRepo(db, log),
		RoomAssignment:     repos.NewRoomAssignmentRepo(db, log),
		CompatibilityScore: repos.NewCompatibilityScoreRepo(db, log),
	}
}
