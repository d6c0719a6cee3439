package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category, Supplier and PurchaseOrder are managed elsewhere; this service
// only reads them for filters and dashboard counts.

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SupplierStatus string

const (
	SupplierActive   SupplierStatus = "active"
	SupplierInactive SupplierStatus = "inactive"
)

type Supplier struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);index;not null" json:"name"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Status    SupplierStatus `gorm:"type:varchar(20);not null;default:active;index" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type PurchaseOrderStatus string

const (
	POPending   PurchaseOrderStatus = "pending"
	POApproved  PurchaseOrderStatus = "approved"
	POReceived  PurchaseOrderStatus = "received"
	POCancelled PurchaseOrderStatus = "cancelled"
)

type PurchaseOrder struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	PONumber    string              `gorm:"column:po_number;type:varchar(64);uniqueIndex;not null" json:"po_number"`
	SupplierID  uint                `gorm:"not null;index" json:"supplier_id"`
	Supplier    *Supplier           `json:"supplier,omitempty"`
	Status      PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	TotalAmount decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	OrderDate   time.Time           `gorm:"not null" json:"order_date"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}
