package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/ledger-service/internal/dbctx"
	"github.com/nurpe/ledger-service/internal/model"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(dbc dbctx.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&profile).Error; err != nil {
		return nil, err
	}
	if profile.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &profile, nil
}

func (r *ProfileRepository) GetByIDAndType(dbc dbctx.Context, id uuid.UUID, profileType model.ProfileType) (*model.Profile, error) {
	var profile model.Profile
	err := dbc.DB(r.db).
		Where("id = ? AND type = ?", id, profileType).
		Limit(1).
		Find(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &profile, nil
}

// LockByID loads a profile with a row lock held until the surrounding
// transaction ends. Without a transaction in dbc it behaves like GetByID.
func (r *ProfileRepository) LockByID(dbc dbctx.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &profile, nil
}

func (r *ProfileRepository) UpdateBalance(dbc dbctx.Context, id uuid.UUID, balance decimal.Decimal) error {
	res := dbc.DB(r.db).
		Model(&model.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance":    balance,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
