package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:text;not null;uniqueIndex:products_name_key"`
	Description *string         `json:"description,omitempty" gorm:"type:text"`
	HSN         string          `json:"hsn" gorm:"column:hsn;type:text;not null;default:''"`
	UOM         string          `json:"uom" gorm:"column:uom;type:text;not null;default:'pcs'"`
	DefaultRate decimal.Decimal `json:"default_rate" gorm:"type:numeric(18,4);not null;default:0"`
	GSTPercent  decimal.Decimal `json:"gst_percent" gorm:"type:numeric(7,3);not null;default:18"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
}

func (Product) TableName() string { return "products" }
