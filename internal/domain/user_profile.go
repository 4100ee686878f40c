package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EmbeddingDim is the fixed dimension of profile embedding vectors.
const EmbeddingDim = 384

// UserProfile is one survey respondent. The embedding is either absent
// (zero-length JSON) or exactly EmbeddingDim floats.
type UserProfile struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	Name       string `gorm:"not null" json:"name"`
	Age        *int   `json:"age"`
	Gender     string `json:"gender"`
	Occupation string `json:"occupation"`

	SleepSchedule    string `gorm:"column:sleep_schedule" json:"sleep_schedule"`
	CleanlinessLevel string `gorm:"column:cleanliness_level" json:"cleanliness_level"`
	NoiseTolerance   string `gorm:"column:noise_tolerance" json:"noise_tolerance"`
	SocialPreference string `gorm:"column:social_preference" json:"social_preference"`

	Hobbies             string `json:"hobbies"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	PetPreference       string `gorm:"column:pet_preference" json:"pet_preference"`
	SmokingPreference   string `gorm:"column:smoking_preference" json:"smoking_preference"`

	BudgetRange        string `gorm:"column:budget_range" json:"budget_range"`
	LocationPreference string `gorm:"column:location_preference" json:"location_preference"`

	Embedding datatypes.JSON `gorm:"column:embedding_vector;type:jsonb" json:"embedding_vector,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }

// EmbeddingVector decodes the stored embedding. Returns nil when absent or
// when the stored vector does not have the fixed dimension.
func (u *UserProfile) EmbeddingVector() []float32 {
	if u == nil || len(u.Embedding) == 0 {
		return nil
	}
	var vec []float32
	if err := json.Unmarshal(u.Embedding, &vec); err != nil {
		return nil
	}
	if len(vec) != EmbeddingDim {
		return nil
	}
	return vec
}

// SetEmbedding encodes and attaches a vector. A nil vector clears it.
func (u *UserProfile) SetEmbedding(vec []float32) error {
	if vec == nil {
		u.Embedding = nil
		return nil
	}
	raw, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	u.Embedding = datatypes.JSON(raw)
	return nil
}
