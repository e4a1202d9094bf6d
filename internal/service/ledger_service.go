package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/ledger-service/internal/dbctx"
	"github.com/nurpe/ledger-service/internal/model"
	"github.com/nurpe/ledger-service/internal/repository"
)

// LedgerService answers the read-only questions a party asks about its
// contracts and jobs. A record the caller is not a party to is reported as
// not found, exactly like a missing one.
type LedgerService struct {
	contracts *repository.ContractRepository
	jobs      *repository.JobRepository
}

func NewLedgerService(contracts *repository.ContractRepository, jobs *repository.JobRepository) *LedgerService {
	return &LedgerService{contracts: contracts, jobs: jobs}
}

func (s *LedgerService) GetContract(ctx context.Context, principal model.Principal, contractID uuid.UUID) (*model.Contract, error) {
	if !principal.Type.Valid() {
		return nil, ErrUnauthorized
	}
	contract, err := s.contracts.GetForParty(dbctx.New(ctx), principal.Type, principal.ProfileID, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

func (s *LedgerService) ListContracts(ctx context.Context, principal model.Principal) ([]model.Contract, error) {
	if !principal.Type.Valid() {
		return nil, ErrUnauthorized
	}
	contracts, err := s.contracts.ListActiveForParty(dbctx.New(ctx), principal.Type, principal.ProfileID)
	if err != nil {
		return nil, err
	}
	if len(contracts) == 0 {
		return nil, ErrNotFound
	}
	return contracts, nil
}

func (s *LedgerService) ListUnpaidJobs(ctx context.Context, principal model.Principal) ([]model.Job, error) {
	if !principal.Type.Valid() {
		return nil, ErrUnauthorized
	}
	jobs, err := s.jobs.ListUnpaidForParty(dbctx.New(ctx), principal.Type, principal.ProfileID)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, ErrNotFound
	}
	return jobs, nil
}
