package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContractStatus string

const (
	ContractStatusNew        ContractStatus = "new"
	ContractStatusInProgress ContractStatus = "in_progress"
	ContractStatusTerminated ContractStatus = "terminated"
)

type Contract struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Terms        string         `gorm:"type:text;not null;default:''" json:"terms"`
	Status       ContractStatus `gorm:"type:varchar(16);not null;default:'new'" json:"status"`
	ClientID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"ClientId"`
	ContractorID uuid.UUID      `gorm:"type:uuid;not null;index" json:"ContractorId"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`

	Client     *Profile `gorm:"foreignKey:ClientID" json:"Client,omitempty"`
	Contractor *Profile `gorm:"foreignKey:ContractorID" json:"Contractor,omitempty"`
	Jobs       []Job    `gorm:"foreignKey:ContractID" json:"Jobs,omitempty"`
}

func (c *Contract) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
