package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/pkg/dbctx"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

type CompatibilityScoreRepo interface {
	UpsertPair(dbc dbctx.Context, row *types.CompatibilityScore) error
	GetPair(dbc dbctx.Context, a, b uuid.UUID) (*types.CompatibilityScore, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.CompatibilityScore, error)
}

type compatibilityScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompatibilityScoreRepo(db *gorm.DB, baseLog *logger.Logger) CompatibilityScoreRepo {
	return &compatibilityScoreRepo{
		db:  db,
		log: baseLog.With("repo", "CompatibilityScoreRepo"),
	}
}

// UpsertPair canonicalizes the pair order before writing so (a, b) and
// (b, a) always land on the same row.
func (r *compatibilityScoreRepo) UpsertPair(dbc dbctx.Context, row *types.CompatibilityScore) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.User1ID == uuid.Nil || row.User2ID == uuid.Nil {
		return nil
	}
	row.User1ID, row.User2ID = types.OrderPair(row.User1ID, row.User2ID)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()

	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"embedding_similarity",
				"neighbor_score",
				"reduced_space_score",
				"classifier_score",
				"rule_based_score",
				"final_score",
				"explanation",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *compatibilityScoreRepo) GetPair(dbc dbctx.Context, a, b uuid.UUID) (*types.CompatibilityScore, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if a == uuid.Nil || b == uuid.Nil {
		return nil, nil
	}
	u1, u2 := types.OrderPair(a, b)
	var row types.CompatibilityScore
	err := t.WithContext(dbc.Ctx).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *compatibilityScoreRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.CompatibilityScore, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.CompatibilityScore
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("final_score DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
