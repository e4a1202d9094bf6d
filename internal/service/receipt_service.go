package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/ledger-service/internal/dbctx"
	"github.com/nurpe/ledger-service/internal/model"
	"github.com/nurpe/ledger-service/internal/repository"
)

type PDFGenerator interface {
	Generate(receipt model.PaymentReceipt) ([]byte, error)
}

// ReceiptService renders payment receipts for paid jobs. Either party of
// the contract may download it.
type ReceiptService struct {
	jobs *repository.JobRepository
	pdf  PDFGenerator
}

func NewReceiptService(jobs *repository.JobRepository, pdf PDFGenerator) *ReceiptService {
	return &ReceiptService{jobs: jobs, pdf: pdf}
}

func (s *ReceiptService) GenerateReceipt(ctx context.Context, principal model.Principal, jobID uuid.UUID) (*ExportResult, error) {
	if !principal.Type.Valid() {
		return nil, ErrUnauthorized
	}

	job, err := s.jobs.GetPaidForParty(dbctx.New(ctx), principal.Type, principal.ProfileID, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if job.Contract == nil || job.Contract.Client == nil || job.Contract.Contractor == nil {
		return nil, fmt.Errorf("job %s: contract parties not loaded", job.ID)
	}

	receipt := model.PaymentReceipt{
		Job:        *job,
		Contract:   *job.Contract,
		Client:     *job.Contract.Client,
		Contractor: *job.Contract.Contractor,
	}
	content, err := s.pdf.Generate(receipt)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		FileName: fmt.Sprintf("receipt-%s.pdf", job.ID),
		Content:  content,
	}, nil
}
