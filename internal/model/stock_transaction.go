package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrImmutableTransaction is returned when anything tries to rewrite the ledger.
var ErrImmutableTransaction = errors.New("stock transactions are append-only")

// StockTransaction is one immutable ledger entry. NewStock is always
// Type.Apply(PreviousStock, Quantity).
type StockTransaction struct {
	ID              uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index;index:idx_stock_tx_product_date,priority:1" json:"product_id"`
	Product         *Product        `json:"product,omitempty"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User           `json:"user,omitempty"`
	Type            TransactionType `gorm:"type:varchar(20);not null;index" json:"type"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PreviousStock   int             `gorm:"not null" json:"previous_stock"`
	NewStock        int             `gorm:"not null" json:"new_stock"`
	ReferenceNumber *string         `gorm:"type:varchar(255)" json:"reference_number,omitempty"`
	Notes           *string         `gorm:"type:text" json:"notes,omitempty"`
	TransactionDate time.Time       `gorm:"not null;index;index:idx_stock_tx_product_date,priority:2" json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (StockTransaction) TableName() string {
	return "stock_transactions"
}

func (t *StockTransaction) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableTransaction
}

func (t *StockTransaction) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableTransaction
}
