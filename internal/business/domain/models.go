package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Business is the seller profile printed on every invoice. There is at most one.
type Business struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	LegalName string            `gorm:"not null" json:"legal_name"`
	Nickname  string            `gorm:"not null;default:''" json:"nickname"`
	GSTIN     string            `gorm:"column:gstin;not null;default:''" json:"gstin"`
	PAN       string            `gorm:"column:pan;not null;default:''" json:"pan"`
	StateCode string            `gorm:"not null;default:''" json:"state_code"`
	State     string            `gorm:"not null;default:''" json:"state"`
	Phone1    string            `gorm:"column:phone_1;not null;default:''" json:"phone_1"`
	Phone2    string            `gorm:"column:phone_2;not null;default:''" json:"phone_2"`
	Email1    string            `gorm:"column:email_1;not null;default:''" json:"email_1"`
	Email2    string            `gorm:"column:email_2;not null;default:''" json:"email_2"`
	Address1  string            `gorm:"column:address_1;not null;default:''" json:"address_1"`
	Address2  string            `gorm:"column:address_2;not null;default:''" json:"address_2"`
	Others    string            `gorm:"not null;default:''" json:"others"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

func (Business) TableName() string { return "businesses" }

// Address joins both address lines for print.
func (b Business) Address() string {
	switch {
	case b.Address2 == "":
		return b.Address1
	case b.Address1 == "":
		return b.Address2
	default:
		return b.Address1 + ", " + b.Address2
	}
}
