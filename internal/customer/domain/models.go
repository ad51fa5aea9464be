package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Customer struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"not null" json:"name"`
	Nickname  string            `gorm:"not null;default:''" json:"nickname"`
	GSTIN     string            `gorm:"column:gstin;not null;default:''" json:"gstin"`
	StateCode string            `gorm:"not null;default:''" json:"state_code"`
	State     string            `gorm:"not null;default:''" json:"state"`
	City      string            `gorm:"not null;default:''" json:"city"`
	Phone1    string            `gorm:"column:phone_1;not null;default:''" json:"phone_1"`
	Phone2    string            `gorm:"column:phone_2;not null;default:''" json:"phone_2"`
	Email1    string            `gorm:"column:email_1;not null;default:''" json:"email_1"`
	Email2    string            `gorm:"column:email_2;not null;default:''" json:"email_2"`
	Address1  string            `gorm:"column:address_1;not null;default:''" json:"address_1"`
	Address2  string            `gorm:"column:address_2;not null;default:''" json:"address_2"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// Address joins the address lines and city for print.
func (c Customer) Address() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Address1, c.Address2, c.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Phone returns the first non-empty phone number.
func (c Customer) Phone() string {
	if c.Phone1 != "" {
		return c.Phone1
	}
	return c.Phone2
}
