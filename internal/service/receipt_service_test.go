package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/ledger-service/internal/model"
	"github.com/nurpe/ledger-service/internal/repository"
	"github.com/nurpe/ledger-service/internal/storetest"
)

type stubPDF struct {
	got model.PaymentReceipt
}

func (s *stubPDF) Generate(receipt model.PaymentReceipt) ([]byte, error) {
	s.got = receipt
	return []byte("%PDF-"), nil
}

func TestGenerateReceipt(t *testing.T) {
	database := storetest.Open(t)
	fx := storetest.NewFixtures(t, database)
	client := fx.Client("0")
	contractor := fx.Contractor("Programmer", "0")
	outsider := fx.Client("0")
	contract := fx.Contract(client, contractor, model.ContractStatusInProgress)
	paid := fx.PaidJob(contract, "200", time.Date(2020, 8, 15, 0, 0, 0, 0, time.UTC))
	unpaid := fx.Job(contract, "100")

	generator := &stubPDF{}
	svc := NewReceiptService(repository.NewJobRepository(database), generator)
	ctx := context.Background()

	result, err := svc.GenerateReceipt(ctx, model.PrincipalFromProfile(contractor), paid.ID)
	require.NoError(t, err)
	assert.Equal(t, "receipt-"+paid.ID.String()+".pdf", result.FileName)
	assert.Equal(t, client.ID, generator.got.Client.ID)
	assert.Equal(t, contractor.ID, generator.got.Contractor.ID)
	assert.Equal(t, contract.ID, generator.got.Contract.ID)

	_, err = svc.GenerateReceipt(ctx, model.PrincipalFromProfile(client), unpaid.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GenerateReceipt(ctx, model.PrincipalFromProfile(outsider), paid.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
