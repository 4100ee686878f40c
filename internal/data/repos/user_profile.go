package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/pkg/dbctx"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

type UserProfileRepo interface {
	Create(dbc dbctx.Context, users []*types.UserProfile) ([]*types.UserProfile, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.UserProfile, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserProfile, error)
	GetAll(dbc dbctx.Context) ([]*types.UserProfile, error)
	GetAllWithEmbeddings(dbc dbctx.Context) ([]*types.UserProfile, error)
	CountWithEmbeddings(dbc dbctx.Context) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return &userProfileRepo{
		db:  db,
		log: baseLog.With("repo", "UserProfileRepo"),
	}
}

func (r *userProfileRepo) Create(dbc dbctx.Context, users []*types.UserProfile) ([]*types.UserProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(users) == 0 {
		return []*types.UserProfile{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userProfileRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.UserProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserProfile
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

func (r *userProfileRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.UserProfile
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

func (r *userProfileRepo) GetAll(dbc dbctx.Context) ([]*types.UserProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserProfile
	if err := t.WithContext(dbc.Ctx).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userProfileRepo) GetAllWithEmbeddings(dbc dbctx.Context) ([]*types.UserProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserProfile
	if err := t.WithContext(dbc.Ctx).
		Where("embedding_vector IS NOT NULL").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userProfileRepo) CountWithEmbeddings(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.UserProfile{}).
		Where("embedding_vector IS NOT NULL").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userProfileRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.UserProfile{}).
		Where("id = ?", id).
		Updates(updates).Error
}
