package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/ledger-service/internal/dbctx"
	"github.com/nurpe/ledger-service/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// PaidJobsInWindow flattens contracts with their contractor and the jobs paid
// in [from, to). Contracts without such jobs do not appear. Rows are ordered
// by contract, then job, so callers can rely on first-encounter order.
func (r *ReportRepository) PaidJobsInWindow(dbc dbctx.Context, from, to time.Time) ([]model.PaidJobRow, error) {
	var rows []model.PaidJobRow
	err := dbc.DB(r.db).Raw(`
		SELECT
			c.id AS contract_id,
			j.id AS job_id,
			p.profession AS profession,
			j.price AS price
		FROM contracts c
		JOIN profiles p ON p.id = c.contractor_id
		JOIN jobs j ON j.contract_id = c.id
		WHERE j.payment_date >= ?
			AND j.payment_date < ?
		ORDER BY c.created_at ASC, c.id ASC, j.created_at ASC, j.id ASC
	`, from.UTC(), to.UTC()).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
