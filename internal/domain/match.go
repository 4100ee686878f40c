package domain

import (
	"time"

	"github.com/google/uuid"
)

// MatchScore is the per-pair scoring breakdown. All sub-scores and the
// fused final score lie in [0, 1].
type MatchScore struct {
	EmbeddingSimilarity float64 `json:"embedding_similarity"`
	NeighborScore       float64 `json:"neighbor_score"`
	ReducedSpaceScore   float64 `json:"reduced_space_score"`
	ClassifierScore     float64 `json:"classifier_score"`
	RuleBasedScore      float64 `json:"rule_based_score"`
	FinalScore          float64 `json:"final_score"`
}

// CompatibilityScore is a persisted MatchScore keyed by the unordered user
// pair: User1ID always holds the smaller uuid so upserts hit one row.
type CompatibilityScore struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	User1ID uuid.UUID `gorm:"column:user1_id;type:uuid;not null;index:idx_compat_pair,unique,priority:1" json:"user1_id"`
	User2ID uuid.UUID `gorm:"column:user2_id;type:uuid;not null;index:idx_compat_pair,unique,priority:2" json:"user2_id"`

	EmbeddingSimilarity float64 `gorm:"column:embedding_similarity" json:"embedding_similarity"`
	NeighborScore       float64 `gorm:"column:neighbor_score" json:"neighbor_score"`
	ReducedSpaceScore   float64 `gorm:"column:reduced_space_score" json:"reduced_space_score"`
	ClassifierScore     float64 `gorm:"column:classifier_score" json:"classifier_score"`
	RuleBasedScore      float64 `gorm:"column:rule_based_score" json:"rule_based_score"`
	FinalScore          float64 `gorm:"column:final_score" json:"final_score"`

	Explanation string    `json:"explanation"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CompatibilityScore) TableName() string { return "compatibility_score" }

// OrderPair returns the pair in canonical (ascending) uuid order.
func OrderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}

// RankedMatch is one candidate in a ranked match list.
type RankedMatch struct {
	UserID uuid.UUID  `json:"user_id"`
	Name   string     `json:"name"`
	Scores MatchScore `json:"scores"`
}
