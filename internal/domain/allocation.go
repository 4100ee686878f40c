package domain

import (
	"time"

	"github.com/google/uuid"
)

// Allocation reasons. `no_rooms_available` and `budget_too_low` are normal
// reported outcomes, not errors.
const (
	ReasonCompatibilityGroup = "compatibility_group"
	ReasonCompatibilitySplit = "compatibility_split"
	ReasonRemainingUser      = "remaining_user"
	ReasonBudgetMatch        = "budget_match"
	ReasonBudgetTooLow       = "budget_too_low"
	ReasonLocationMatch      = "location_match"
	ReasonBalanced           = "balanced_allocation"
	ReasonNoRoomsAvailable   = "no_rooms_available"
)

// AllocationRecord is the per-user outcome of an allocation run.
type AllocationRecord struct {
	UserID     uuid.UUID  `json:"user_id"`
	UserName   string     `json:"user_name"`
	RoomID     *uuid.UUID `json:"room_id"`
	RoomNumber string     `json:"room_number,omitempty"`
	Assigned   bool       `json:"assigned"`
	GroupSize  int        `json:"group_size,omitempty"`
	Score      float64    `json:"score,omitempty"`
	Reason     string     `json:"reason"`
}

// AllocationResult is the outcome of one allocation batch.
type AllocationResult struct {
	Strategy       string             `json:"strategy"`
	Records        []AllocationRecord `json:"allocations"`
	TotalUsers     int                `json:"total_users"`
	TotalRooms     int                `json:"total_rooms"`
	AllocatedUsers int                `json:"allocated_users"`
	Timestamp      time.Time          `json:"timestamp"`
}
