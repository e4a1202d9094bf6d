package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/ledger-service/internal/model"
)

func TestGenerateReceipt(t *testing.T) {
	paid := true
	paidAt := time.Date(2020, 8, 15, 19, 11, 26, 0, time.UTC)
	receipt := model.PaymentReceipt{
		Job: model.Job{
			ID:          uuid.New(),
			Description: "work",
			Price:       decimal.RequireFromString("201.5"),
			Paid:        &paid,
			PaymentDate: &paidAt,
		},
		Contract:   model.Contract{ID: uuid.New(), Status: model.ContractStatusInProgress, Terms: "bla bla bla"},
		Client:     model.Profile{ID: uuid.New(), FirstName: "Harry", LastName: "Potter", Profession: "Wizard"},
		Contractor: model.Profile{ID: uuid.New(), FirstName: "John", LastName: "Lenon", Profession: "Musician"},
	}

	content, err := NewGenerator().Generate(receipt)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", formatTime(nil))
	at := time.Date(2020, 8, 15, 19, 11, 0, 0, time.UTC)
	assert.Equal(t, "2020-08-15 19:11 UTC", formatTime(&at))
}
