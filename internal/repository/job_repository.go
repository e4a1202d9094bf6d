package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/ledger-service/internal/dbctx"
	"github.com/nurpe/ledger-service/internal/model"
)

const joinContracts = "JOIN contracts ON contracts.id = jobs.contract_id"

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// ListUnpaidForParty returns unpaid jobs of in-progress contracts where the
// profile is a party. Paid must be NULL, not merely false.
func (r *JobRepository) ListUnpaidForParty(
	dbc dbctx.Context,
	partyType model.ProfileType,
	partyID uuid.UUID,
) ([]model.Job, error) {
	column, err := partyColumn(partyType)
	if err != nil {
		return nil, err
	}

	var jobs []model.Job
	err = dbc.DB(r.db).
		Joins(joinContracts).
		Preload("Contract").
		Where(column+" = ?", partyID).
		Where("contracts.status = ?", model.ContractStatusInProgress).
		Where("jobs.paid IS NULL").
		Order("jobs.created_at ASC, jobs.id ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindPayable returns the job if the client may pay it right now. With lock
// set, the job row stays locked until the surrounding transaction ends.
func (r *JobRepository) FindPayable(dbc dbctx.Context, clientID, jobID uuid.UUID, lock bool) (*model.Job, error) {
	q := dbc.DB(r.db).
		Joins(joinContracts).
		Preload("Contract").
		Where("jobs.id = ?", jobID).
		Where("contracts.client_id = ?", clientID).
		Where("contracts.status = ?", model.ContractStatusInProgress).
		Where("jobs.paid IS NULL")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "jobs"}})
	}

	var job model.Job
	if err := q.Limit(1).Find(&job).Error; err != nil {
		return nil, err
	}
	if job.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &job, nil
}

// MarkPaid flips paid from NULL to true and stamps the payment date in one
// statement. It reports false when the job was already paid.
func (r *JobRepository) MarkPaid(dbc dbctx.Context, jobID uuid.UUID, paidAt time.Time) (bool, error) {
	res := dbc.DB(r.db).
		Model(&model.Job{}).
		Where("id = ? AND paid IS NULL", jobID).
		Updates(map[string]interface{}{
			"paid":         true,
			"payment_date": paidAt,
			"updated_at":   paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListUnpaidForClient returns unpaid jobs across all contracts of the client,
// whatever the contract status.
func (r *JobRepository) ListUnpaidForClient(dbc dbctx.Context, clientID uuid.UUID) ([]model.Job, error) {
	var jobs []model.Job
	err := dbc.DB(r.db).
		Joins(joinContracts).
		Where("contracts.client_id = ?", clientID).
		Where("jobs.paid IS NULL").
		Order("jobs.created_at ASC, jobs.id ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetPaidForParty loads a paid job with its contract and both parties.
func (r *JobRepository) GetPaidForParty(
	dbc dbctx.Context,
	partyType model.ProfileType,
	partyID uuid.UUID,
	jobID uuid.UUID,
) (*model.Job, error) {
	column, err := partyColumn(partyType)
	if err != nil {
		return nil, err
	}

	var job model.Job
	err = dbc.DB(r.db).
		Joins(joinContracts).
		Preload("Contract.Client").
		Preload("Contract.Contractor").
		Where("jobs.id = ?", jobID).
		Where(column+" = ?", partyID).
		Where("jobs.paid = ?", true).
		Limit(1).
		Find(&job).Error
	if err != nil {
		return nil, err
	}
	if job.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &job, nil
}
