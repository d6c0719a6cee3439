package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductActive       ProductStatus = "active"
	ProductInactive     ProductStatus = "inactive"
	ProductDiscontinued ProductStatus = "discontinued"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductActive, ProductInactive, ProductDiscontinued:
		return true
	}
	return false
}

type Product struct {
	BaseModel
	SKU           string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`
	Name          string          `gorm:"type:varchar(255);index;not null" json:"name"`
	Description   *string         `gorm:"type:text" json:"description,omitempty"`
	CategoryID    *uint           `gorm:"index" json:"category_id,omitempty"`
	Category      *Category       `json:"category,omitempty"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	CurrentStock  int             `gorm:"not null;default:0;index" json:"current_stock"` // written only by the ledger
	MinimumStock  int             `gorm:"not null;default:0" json:"minimum_stock"`
	UnitOfMeasure string          `gorm:"type:varchar(32);not null" json:"unit_of_measure"`
	Status        ProductStatus   `gorm:"type:varchar(20);not null;default:active;index" json:"status"`
	Version       int64           `gorm:"not null;default:0" json:"version"`

	CreatedByUserID *uuid.UUID `gorm:"type:uuid" json:"created_by_user_id,omitempty"`
}

// HasLowStock reports whether stock has reached the minimum threshold.
func (p *Product) HasLowStock() bool {
	return p.CurrentStock <= p.MinimumStock
}
