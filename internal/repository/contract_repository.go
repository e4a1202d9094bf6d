package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/ledger-service/internal/dbctx"
	"github.com/nurpe/ledger-service/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// GetForParty returns the contract only when the given profile is one of its parties.
func (r *ContractRepository) GetForParty(
	dbc dbctx.Context,
	partyType model.ProfileType,
	partyID uuid.UUID,
	contractID uuid.UUID,
) (*model.Contract, error) {
	column, err := partyColumn(partyType)
	if err != nil {
		return nil, err
	}

	var contract model.Contract
	err = dbc.DB(r.db).
		Where("contracts.id = ? AND "+column+" = ?", contractID, partyID).
		Limit(1).
		Find(&contract).Error
	if err != nil {
		return nil, err
	}
	if contract.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &contract, nil
}

// ListActiveForParty returns every non-terminated contract of the profile.
func (r *ContractRepository) ListActiveForParty(
	dbc dbctx.Context,
	partyType model.ProfileType,
	partyID uuid.UUID,
) ([]model.Contract, error) {
	column, err := partyColumn(partyType)
	if err != nil {
		return nil, err
	}

	var contracts []model.Contract
	err = dbc.DB(r.db).
		Where(column+" = ? AND contracts.status <> ?", partyID, model.ContractStatusTerminated).
		Order("contracts.created_at ASC, contracts.id ASC").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}
