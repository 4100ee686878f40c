package repos

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/pkg/dbctx"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

type RoomAssignmentRepo interface {
	GetActiveByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.RoomAssignment, error)
	GetActiveByRoomID(dbc dbctx.Context, roomID uuid.UUID) ([]*types.RoomAssignment, error)
	GetAllActive(dbc dbctx.Context) ([]*types.RoomAssignment, error)
	ApplyBatch(dbc dbctx.Context, records []types.AllocationRecord) error
	RemoveActiveByUserID(dbc dbctx.Context, userID uuid.UUID) (bool, error)
}

type roomAssignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoomAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) RoomAssignmentRepo {
	return &roomAssignmentRepo{
		db:  db,
		log: baseLog.With("repo", "RoomAssignmentRepo"),
	}
}

func (r *roomAssignmentRepo) GetActiveByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.RoomAssignment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.RoomAssignment
	err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND status = ?", userID, types.AssignmentActive).
		Order("assigned_at DESC").
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

func (r *roomAssignmentRepo) GetActiveByRoomID(dbc dbctx.Context, roomID uuid.UUID) ([]*types.RoomAssignment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.RoomAssignment
	if roomID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("room_id = ? AND status = ?", roomID, types.AssignmentActive).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *roomAssignmentRepo) GetAllActive(dbc dbctx.Context) ([]*types.RoomAssignment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.RoomAssignment
	if err := t.WithContext(dbc.Ctx).
		Where("status = ?", types.AssignmentActive).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyBatch persists an allocation run in one transaction. Assigned
// records upsert on the (user, room) pair, older active assignments for
// the same user are deactivated, and occupancy flags are recomputed for
// every touched room. Re-applying the same batch is a no-op.
func (r *roomAssignmentRepo) ApplyBatch(dbc dbctx.Context, records []types.AllocationRecord) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		touched := make(map[uuid.UUID]bool)

		for _, rec := range records {
			if !rec.Assigned || rec.RoomID == nil {
				continue
			}

			var prior []*types.RoomAssignment
			if err := tx.
				Where("user_id = ? AND status = ?", rec.UserID, types.AssignmentActive).
				Find(&prior).Error; err != nil {
				return err
			}
			for _, p := range prior {
				if p.RoomID == *rec.RoomID {
					continue
				}
				if err := tx.Model(&types.RoomAssignment{}).
					Where("id = ?", p.ID).
					Update("status", types.AssignmentInactive).Error; err != nil {
					return err
				}
				touched[p.RoomID] = true
			}

			row := &types.RoomAssignment{
				ID:         uuid.New(),
				UserID:     rec.UserID,
				RoomID:     *rec.RoomID,
				Status:     types.AssignmentActive,
				AssignedAt: now,
			}
			if err := tx.
				Clauses(clause.OnConflict{
					Columns: []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
					DoUpdates: clause.AssignmentColumns([]string{
						"status",
						"assigned_at",
					}),
				}).
				Create(row).Error; err != nil {
				return err
			}
			touched[*rec.RoomID] = true
		}

		for roomID := range touched {
			if err := refreshOccupancy(tx, roomID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *roomAssignmentRepo) RemoveActiveByUserID(dbc dbctx.Context, userID uuid.UUID) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return false, nil
	}
	removed := false
	err := t.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		var rows []*types.RoomAssignment
		if err := tx.
			Where("user_id = ? AND status = ?", userID, types.AssignmentActive).
			Find(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			if err := tx.Model(&types.RoomAssignment{}).
				Where("id = ?", row.ID).
				Update("status", types.AssignmentInactive).Error; err != nil {
				return err
			}
			if err := refreshOccupancy(tx, row.RoomID); err != nil {
				return err
			}
			removed = true
		}
		return nil
	})
	return removed, err
}

func refreshOccupancy(tx *gorm.DB, roomID uuid.UUID) error {
	var active int64
	if err := tx.Model(&types.RoomAssignment{}).
		Where("room_id = ? AND status = ?", roomID, types.AssignmentActive).
		Count(&active).Error; err != nil {
		return err
	}
	if err := tx.Model(&types.Room{}).
		Where("id = ?", roomID).
		Update("is_occupied", active > 0).Error; err != nil {
		return fmt.Errorf("refresh occupancy for room %s: %w", roomID, err)
	}
	return nil
}
