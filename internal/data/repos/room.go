package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/pkg/dbctx"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

type RoomRepo interface {
	Create(dbc dbctx.Context, rooms []*types.Room) ([]*types.Room, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Room, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Room, error)
	GetAll(dbc dbctx.Context) ([]*types.Room, error)
	GetAvailable(dbc dbctx.Context) ([]*types.Room, error)
	SetOccupied(dbc dbctx.Context, id uuid.UUID, occupied bool) error
}

type roomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoomRepo(db *gorm.DB, baseLog *logger.Logger) RoomRepo {
	return &roomRepo{
		db:  db,
		log: baseLog.With("repo", "RoomRepo"),
	}
}

func (r *roomRepo) Create(dbc dbctx.Context, rooms []*types.Room) ([]*types.Room, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rooms) == 0 {
		return []*types.Room{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Room, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Room
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *roomRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Room, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Room
	err := t.WithContext(dbc.Ctx).
		Where("id = ?", id).
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

func (r *roomRepo) GetAll(dbc dbctx.Context) ([]*types.Room, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Room
	if err := t.WithContext(dbc.Ctx).
		Order("room_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *roomRepo) GetAvailable(dbc dbctx.Context) ([]*types.Room, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Room
	if err := t.WithContext(dbc.Ctx).
		Where("is_occupied = ?", false).
		Order("room_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *roomRepo) SetOccupied(dbc dbctx.Context, id uuid.UUID, occupied bool) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Room{}).
		Where("id = ?", id).
		Update("is_occupied", occupied).Error
}
