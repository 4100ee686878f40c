package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/roomie-backend/internal/data/repos"
	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/pkg/dbctx"
	"github.com/yungbote/roomie-backend/internal/platform/apierr"
	"github.com/yungbote/roomie-backend/internal/platform/cache"
	"github.com/yungbote/roomie-backend/internal/platform/embeddings"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

type SurveyInput struct {
	Name                string `json:"name" binding:"required"`
	Age                 *int   `json:"age"`
	Gender              string `json:"gender"`
	Occupation          string `json:"occupation"`
	SleepSchedule       string `json:"sleep_schedule"`
	CleanlinessLevel    string `json:"cleanliness_level"`
	NoiseTolerance      string `json:"noise_tolerance"`
	SocialPreference    string `json:"social_preference"`
	Hobbies             string `json:"hobbies"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	PetPreference       string `json:"pet_preference"`
	SmokingPreference   string `json:"smoking_preference"`
	BudgetRange         string `json:"budget_range"`
	LocationPreference  string `json:"location_preference"`
}

type RoomInput struct {
	RoomNumber  string   `json:"room_number" binding:"required"`
	FloorNumber int      `json:"floor_number"`
	RoomType    string   `json:"room_type"`
	Capacity    int      `json:"capacity"`
	Preferences string   `json:"preferences"`
	MonthlyRent float64  `json:"monthly_rent"`
	Amenities   []string `json:"amenities"`
}

// SurveyService owns survey intake and the user/room inventory surface.
type SurveyService interface {
	SubmitSurvey(ctx context.Context, input SurveyInput) (*types.UserProfile, error)
	GetUser(ctx context.Context, id uuid.UUID) (*types.UserProfile, error)
	ListUsers(ctx context.Context) ([]*types.UserProfile, error)
	CreateRoom(ctx context.Context, input RoomInput) (*types.Room, error)
	ListRooms(ctx context.Context) ([]*types.Room, error)
}

type surveyService struct {
	db       *gorm.DB
	log      *logger.Logger
	users    repos.UserProfileRepo
	rooms    repos.RoomRepo
	embedder embeddings.Client
	matches  *cache.MatchCache
}

func NewSurveyService(db *gorm.DB, log *logger.Logger, users repos.UserProfileRepo, rooms repos.RoomRepo, embedder embeddings.Client, matches *cache.MatchCache) SurveyService {
	return &surveyService{
		db:       db,
		log:      log.With("service", "SurveyService"),
		users:    users,
		rooms:    rooms,
		embedder: embedder,
		matches:  matches,
	}
}

// SubmitSurvey creates the profile and embeds its text representation in
// the same request. A failed embedding is not fatal: the profile is stored
// without a vector and preprocessing can fill it in later.
func (s *surveyService) SubmitSurvey(ctx context.Context, input SurveyInput) (*types.UserProfile, error) {
	profile := &types.UserProfile{
		ID:                  uuid.New(),
		Name:                input.Name,
		Age:                 input.Age,
		Gender:              input.Gender,
		Occupation:          input.Occupation,
		SleepSchedule:       input.SleepSchedule,
		CleanlinessLevel:    input.CleanlinessLevel,
		NoiseTolerance:      input.NoiseTolerance,
		SocialPreference:    input.SocialPreference,
		Hobbies:             input.Hobbies,
		DietaryRestrictions: input.DietaryRestrictions,
		PetPreference:       input.PetPreference,
		SmokingPreference:   input.SmokingPreference,
		BudgetRange:         input.BudgetRange,
		LocationPreference:  input.LocationPreference,
	}

	vecs, err := s.embedder.Embed(ctx, []string{embeddings.ProfileText(profile)})
	if err != nil {
		s.log.Warn("embedding failed on survey submit, storing profile without vector",
			"user", profile.ID, "error", err)
	} else if len(vecs) == 1 {
		if err := profile.SetEmbedding(vecs[0]); err != nil {
			return nil, fmt.Errorf("encode embedding: %w", err)
		}
	}

	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.users.Create(dbc, []*types.UserProfile{profile}); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	s.matches.Invalidate(ctx, profile.ID)
	s.log.Info("survey submitted", "user", profile.ID, "embedded", len(profile.Embedding) > 0)
	return profile, nil
}

func (s *surveyService) GetUser(ctx context.Context, id uuid.UUID) (*types.UserProfile, error) {
	profile, err := s.users.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return nil, apierr.New(http.StatusNotFound, apierr.CodeNotFound,
			fmt.Errorf("user %s not found", id))
	}
	return profile, nil
}

func (s *surveyService) ListUsers(ctx context.Context) ([]*types.UserProfile, error) {
	return s.users.GetAll(dbctx.Context{Ctx: ctx})
}

func (s *surveyService) CreateRoom(ctx context.Context, input RoomInput) (*types.Room, error) {
	room := &types.Room{
		ID:          uuid.New(),
		RoomNumber:  input.RoomNumber,
		FloorNumber: input.FloorNumber,
		RoomType:    input.RoomType,
		Capacity:    input.Capacity,
		Preferences: input.Preferences,
		MonthlyRent: input.MonthlyRent,
	}
	if room.Capacity <= 0 {
		room.Capacity = 2
	}
	if len(input.Amenities) > 0 {
		raw, err := json.Marshal(input.Amenities)
		if err != nil {
			return nil, fmt.Errorf("encode amenities: %w", err)
		}
		room.Amenities = datatypes.JSON(raw)
	}
	if _, err := s.rooms.Create(dbctx.Context{Ctx: ctx}, []*types.Room{room}); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	s.log.Info("room created", "room", room.ID, "number", room.RoomNumber)
	return room, nil
}

func (s *surveyService) ListRooms(ctx context.Context) ([]*types.Room, error) {
	return s.rooms.GetAll(dbctx.Context{Ctx: ctx})
}
