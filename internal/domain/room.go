package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Room is one unit of physical inventory. IsOccupied is true iff at least
// one active assignment references the room.
type Room struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	RoomNumber  string         `gorm:"column:room_number;uniqueIndex;not null" json:"room_number"`
	FloorNumber int            `gorm:"column:floor_number" json:"floor_number"`
	RoomType    string         `gorm:"column:room_type" json:"room_type"`
	Capacity    int            `gorm:"not null;default:2" json:"capacity"`
	IsOccupied  bool           `gorm:"column:is_occupied;not null;default:false" json:"is_occupied"`
	Preferences string         `json:"preferences"`
	MonthlyRent float64        `gorm:"column:monthly_rent" json:"monthly_rent"`
	Amenities   datatypes.JSON `gorm:"type:jsonb" json:"amenities,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Room) TableName() string { return "room" }

const (
	AssignmentActive   = "active"
	AssignmentInactive = "inactive"
)

// RoomAssignment links a user to a room. At most one active assignment per
// user; active assignments per room never exceed its capacity.
type RoomAssignment struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_room_assignment_pair,unique,priority:1" json:"user_id"`
	RoomID uuid.UUID `gorm:"column:room_id;type:uuid;not null;index:idx_room_assignment_pair,unique,priority:2" json:"room_id"`

	Status     string    `gorm:"not null;default:'active';index" json:"status"`
	AssignedAt time.Time `gorm:"column:assigned_at;not null;default:now()" json:"assigned_at"`
}

func (RoomAssignment) TableName() string { return "room_assignment" }
