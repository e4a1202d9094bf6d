package repository

import (
	"fmt"

	"github.com/nurpe/ledger-service/internal/model"
)

// partyColumn returns the contracts column that links a profile of the given type.
func partyColumn(partyType model.ProfileType) (string, error) {
	switch partyType {
	case model.ProfileTypeClient:
		return "contracts.client_id", nil
	case model.ProfileTypeContractor:
		return "contracts.contractor_id", nil
	default:
		return "", fmt.Errorf("unknown profile type %q", partyType)
	}
}
