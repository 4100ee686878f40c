package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roomie-backend/internal/allocation"
	"github.com/yungbote/roomie-backend/internal/data/repos"
	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/pkg/dbctx"
	"github.com/yungbote/roomie-backend/internal/platform/apierr"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

type AllocationStatus struct {
	TotalRooms      int64   `json:"total_rooms"`
	OccupiedRooms   int64   `json:"occupied_rooms"`
	ActiveResidents int64   `json:"active_residents"`
	UnassignedUsers int64   `json:"unassigned_users"`
	OccupancyRate   float64 `json:"occupancy_rate"`
	AssignmentRate  float64 `json:"assignment_rate"`
}

type RoomDetails struct {
	Room      *types.Room          `json:"room"`
	Occupants []*types.UserProfile `json:"occupants"`
}

// AllocationService runs allocation strategies over the unassigned user
// pool and persists the outcome.
type AllocationService interface {
	AllocateAll(ctx context.Context, strategy string) (*types.AllocationResult, error)
	AllocateUser(ctx context.Context, userID uuid.UUID, strategy string) (*types.AllocationResult, error)
	Status(ctx context.Context) (*AllocationStatus, error)
	RoomDetails(ctx context.Context, roomID uuid.UUID) (*RoomDetails, error)
	RemoveAssignment(ctx context.Context, userID uuid.UUID) error
}

type allocationService struct {
	db          *gorm.DB
	log         *logger.Logger
	users       repos.UserProfileRepo
	rooms       repos.RoomRepo
	assignments repos.RoomAssignmentRepo
	allocator   *allocation.Allocator
}

func NewAllocationService(db *gorm.DB, log *logger.Logger, users repos.UserProfileRepo, rooms repos.RoomRepo, assignments repos.RoomAssignmentRepo, allocator *allocation.Allocator) AllocationService {
	return &allocationService{
		db:          db,
		log:         log.With("service", "AllocationService"),
		users:       users,
		rooms:       rooms,
		assignments: assignments,
		allocator:   allocator,
	}
}

// AllocateAll runs one strategy over every user without an active
// assignment and the currently free rooms, then applies the batch in one
// transaction.
func (s *allocationService) AllocateAll(ctx context.Context, strategy string) (*types.AllocationResult, error) {
	pool, rooms, err := s.loadPool(ctx, uuid.Nil)
	if err != nil {
		return nil, err
	}
	result, err := s.allocator.Allocate(pool, rooms, strategy)
	if err != nil {
		return nil, err
	}
	if err := s.assignments.ApplyBatch(dbctx.Context{Ctx: ctx}, result.Records); err != nil {
		return nil, fmt.Errorf("apply allocation batch: %w", err)
	}
	return result, nil
}

// AllocateUser places a single user with the given strategy, leaving
// everyone else untouched.
func (s *allocationService) AllocateUser(ctx context.Context, userID uuid.UUID, strategy string) (*types.AllocationResult, error) {
	dbc := dbctx.Context{Ctx: ctx}
	user, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, apierr.New(http.StatusNotFound, apierr.CodeNotFound,
			fmt.Errorf("user %s not found", userID))
	}

	_, rooms, err := s.loadPool(ctx, userID)
	if err != nil {
		return nil, err
	}
	result, err := s.allocator.Allocate([]*types.UserProfile{user}, rooms, strategy)
	if err != nil {
		return nil, err
	}
	if err := s.assignments.ApplyBatch(dbc, result.Records); err != nil {
		return nil, fmt.Errorf("apply allocation batch: %w", err)
	}
	return result, nil
}

// loadPool returns users with no active assignment plus the free rooms.
// keepUser, when set, stays in the pool even if currently assigned so a
// single-user rerun can move them.
func (s *allocationService) loadPool(ctx context.Context, keepUser uuid.UUID) ([]*types.UserProfile, []*types.Room, error) {
	dbc := dbctx.Context{Ctx: ctx}
	all, err := s.users.GetAll(dbc)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch users: %w", err)
	}
	active, err := s.assignments.GetAllActive(dbc)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch assignments: %w", err)
	}
	assigned := make(map[uuid.UUID]bool, len(active))
	for _, a := range active {
		assigned[a.UserID] = true
	}

	pool := make([]*types.UserProfile, 0, len(all))
	for _, u := range all {
		if assigned[u.ID] && u.ID != keepUser {
			continue
		}
		pool = append(pool, u)
	}

	rooms, err := s.rooms.GetAvailable(dbc)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch rooms: %w", err)
	}
	return pool, rooms, nil
}

func (s *allocationService) Status(ctx context.Context) (*AllocationStatus, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rooms, err := s.rooms.GetAll(dbc)
	if err != nil {
		return nil, fmt.Errorf("fetch rooms: %w", err)
	}
	active, err := s.assignments.GetAllActive(dbc)
	if err != nil {
		return nil, fmt.Errorf("fetch assignments: %w", err)
	}
	users, err := s.users.GetAll(dbc)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}

	occupied := int64(0)
	for _, r := range rooms {
		if r.IsOccupied {
			occupied++
		}
	}
	assigned := make(map[uuid.UUID]bool, len(active))
	for _, a := range active {
		assigned[a.UserID] = true
	}
	unassigned := int64(0)
	for _, u := range users {
		if !assigned[u.ID] {
			unassigned++
		}
	}

	status := &AllocationStatus{
		TotalRooms:      int64(len(rooms)),
		OccupiedRooms:   occupied,
		ActiveResidents: int64(len(active)),
		UnassignedUsers: unassigned,
	}
	if len(rooms) > 0 {
		status.OccupancyRate = float64(occupied) / float64(len(rooms))
	}
	if len(users) > 0 {
		status.AssignmentRate = float64(len(users)-int(unassigned)) / float64(len(users))
	}
	return status, nil
}

func (s *allocationService) RoomDetails(ctx context.Context, roomID uuid.UUID) (*RoomDetails, error) {
	dbc := dbctx.Context{Ctx: ctx}
	room, err := s.rooms.GetByID(dbc, roomID)
	if err != nil {
		return nil, fmt.Errorf("fetch room: %w", err)
	}
	if room == nil {
		return nil, apierr.New(http.StatusNotFound, apierr.CodeNotFound,
			fmt.Errorf("room %s not found", roomID))
	}
	active, err := s.assignments.GetActiveByRoomID(dbc, roomID)
	if err != nil {
		return nil, fmt.Errorf("fetch assignments: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(active))
	for _, a := range active {
		ids = append(ids, a.UserID)
	}
	occupants, err := s.users.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch occupants: %w", err)
	}
	return &RoomDetails{Room: room, Occupants: occupants}, nil
}

func (s *allocationService) RemoveAssignment(ctx context.Context, userID uuid.UUID) error {
	removed, err := s.assignments.RemoveActiveByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return fmt.Errorf("remove assignment: %w", err)
	}
	if !removed {
		return apierr.New(http.StatusNotFound, apierr.CodeNotFound,
			fmt.Errorf("no active assignment for user %s", userID))
	}
	s.log.Info("assignment removed", "user", userID)
	return nil
}
