package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/ledger-service/internal/config"
	"github.com/nurpe/ledger-service/internal/dbctx"
	"github.com/nurpe/ledger-service/internal/metrics"
	"github.com/nurpe/ledger-service/internal/model"
	"github.com/nurpe/ledger-service/internal/repository"
)

const insufficientFundsMessage = "Client doesnt have enough money to pay for the job"

// PaymentResult is the body returned by the pay and deposit operations.
type PaymentResult struct {
	Message string `json:"message"`
	Status  bool   `json:"status"`
}

type DepositResult struct {
	PaymentResult
	Amount decimal.Decimal `json:"-"`
}

// PaymentService moves money between profiles. Every operation runs in one
// transaction; the job row and the profile rows are locked before they are
// read for update, so a job can be paid at most once.
type PaymentService struct {
	db             *gorm.DB
	profiles       *repository.ProfileRepository
	jobs           *repository.JobRepository
	allowOverdraft bool
	depositRate    decimal.Decimal
	now            func() time.Time
	log            zerolog.Logger
}

func NewPaymentService(
	db *gorm.DB,
	profiles *repository.ProfileRepository,
	jobs *repository.JobRepository,
	cfg config.PaymentsConfig,
	log zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		db:             db,
		profiles:       profiles,
		jobs:           jobs,
		allowOverdraft: cfg.AllowOverdraft,
		depositRate:    decimal.NewFromInt(int64(cfg.DepositRatePercent)),
		now:            time.Now,
		log:            log.With().Str("component", "payments").Logger(),
	}
}

// PayJob transfers the job price from the calling client to the contractor
// of the job's contract and marks the job paid.
//
// When the client balance is lower than the price nothing is changed and a
// result with Status false is returned, unless overdraft is allowed, in which
// case the transfer happens anyway.
func (s *PaymentService) PayJob(ctx context.Context, principal model.Principal, jobID uuid.UUID) (*PaymentResult, error) {
	if !principal.IsClient() {
		return nil, ErrUnauthorized
	}

	var result *PaymentResult
	outcome := metrics.OutcomePaid

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx).WithTx(tx)

		job, err := s.jobs.FindPayable(dbc, principal.ProfileID, jobID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load job: %w", err)
		}

		client, err := s.profiles.LockByID(dbc, principal.ProfileID)
		if err != nil {
			return fmt.Errorf("lock client: %w", err)
		}

		if client.Balance.LessThan(job.Price) {
			if !s.allowOverdraft {
				outcome = metrics.OutcomeInsufficientFunds
				result = &PaymentResult{Message: insufficientFundsMessage, Status: false}
				return nil
			}
			outcome = metrics.OutcomeOverdraft
			s.log.Warn().
				Str("client_id", client.ID.String()).
				Str("job_id", job.ID.String()).
				Str("balance", client.Balance.String()).
				Str("price", job.Price.String()).
				Msg("paying job beyond client balance")
		}

		marked, err := s.jobs.MarkPaid(dbc, job.ID, s.now().UTC())
		if err != nil {
			return fmt.Errorf("mark job paid: %w", err)
		}
		if !marked {
			return ErrNotFound
		}

		if err := s.profiles.UpdateBalance(dbc, client.ID, client.Balance.Sub(job.Price)); err != nil {
			return fmt.Errorf("debit client: %w", err)
		}

		contractorID := job.Contract.ContractorID
		contractor, err := s.profiles.LockByID(dbc, contractorID)
		if err != nil {
			return fmt.Errorf("lock contractor: %w", err)
		}
		if err := s.profiles.UpdateBalance(dbc, contractor.ID, contractor.Balance.Add(job.Price)); err != nil {
			return fmt.Errorf("credit contractor: %w", err)
		}

		result = &PaymentResult{
			Message: fmt.Sprintf("Client:%s already pay the job to the contractor %s. Job price: %s",
				client.ID, contractorID, job.Price.String()),
			Status: true,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.ObservePayment(metrics.OutcomeNotFound)
		} else {
			metrics.ObservePayment(metrics.OutcomeError)
		}
		return nil, err
	}

	metrics.ObservePayment(outcome)
	return result, nil
}

// Deposit credits the client with a fixed share of the total price of all of
// its unpaid jobs, across every contract regardless of status.
func (s *PaymentService) Deposit(ctx context.Context, principal model.Principal) (*DepositResult, error) {
	if !principal.IsClient() {
		return nil, ErrUnauthorized
	}

	var result *DepositResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx).WithTx(tx)

		client, err := s.profiles.LockByID(dbc, principal.ProfileID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnauthorized
			}
			return fmt.Errorf("lock client: %w", err)
		}

		jobs, err := s.jobs.ListUnpaidForClient(dbc, client.ID)
		if err != nil {
			return fmt.Errorf("list unpaid jobs: %w", err)
		}
		if len(jobs) == 0 {
			return ErrNotFound
		}

		amount := depositAmount(jobs, s.depositRate)
		if err := s.profiles.UpdateBalance(dbc, client.ID, client.Balance.Add(amount)); err != nil {
			return fmt.Errorf("credit client: %w", err)
		}

		result = &DepositResult{
			PaymentResult: PaymentResult{
				Message: fmt.Sprintf("It was deposited: %s to the client:%s", amount.String(), client.ID),
				Status:  true,
			},
			Amount: amount,
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			metrics.ObserveDeposit(metrics.OutcomeError)
		} else {
			metrics.ObserveDeposit(metrics.OutcomeNotFound)
		}
		return nil, err
	}

	metrics.ObserveDeposit(metrics.OutcomeDeposited)
	return result, nil
}

func depositAmount(jobs []model.Job, ratePercent decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, job := range jobs {
		total = total.Add(job.Price)
	}
	return total.Mul(ratePercent).Div(decimal.NewFromInt(100))
}
