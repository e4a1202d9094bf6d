package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProfileType string

const (
	ProfileTypeClient     ProfileType = "client"
	ProfileTypeContractor ProfileType = "contractor"
)

func (t ProfileType) Valid() bool {
	return t == ProfileTypeClient || t == ProfileTypeContractor
}

type Profile struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName  string          `gorm:"not null" json:"firstName"`
	LastName   string          `gorm:"not null" json:"lastName"`
	Profession string          `gorm:"not null" json:"profession"`
	Balance    decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"balance"`
	Type       ProfileType     `gorm:"type:varchar(16);not null" json:"type"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (p *Profile) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p Profile) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Principal is the caller identity resolved from a request.
type Principal struct {
	ProfileID uuid.UUID
	Type      ProfileType
	Balance   decimal.Decimal
}

func PrincipalFromProfile(p *Profile) Principal {
	return Principal{ProfileID: p.ID, Type: p.Type, Balance: p.Balance}
}

func (p Principal) IsClient() bool {
	return p.Type == ProfileTypeClient
}

func (p Principal) IsContractor() bool {
	return p.Type == ProfileTypeContractor
}
