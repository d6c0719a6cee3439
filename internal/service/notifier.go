package service

import (
	"fmt"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
)

// Notifier receives events after they are committed
type Notifier interface {
	Publish(event any)
}

type StockEventProduct struct {
	ID           uuid.UUID `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	MinimumStock int       `json:"minimum_stock"`
}

// StockUpdateEvent is pushed to dashboards when the ledger moves stock
type StockUpdateEvent struct {
	Type            string                `json:"type"`
	Action          string                `json:"action"`
	TransactionID   uint                  `json:"transaction_id"`
	TransactionType model.TransactionType `json:"transaction_type"`
	Quantity        int                   `json:"quantity"`
	PreviousStock   int                   `json:"previous_stock"`
	NewStock        int                   `json:"new_stock"`
	LowStock        bool                  `json:"low_stock"`
	Product         StockEventProduct     `json:"product"`
	UserID          uuid.UUID             `json:"user_id"`
	Message         string                `json:"message"`
}

func newStockUpdateEvent(tx *model.StockTransaction, p *model.Product) StockUpdateEvent {
	return StockUpdateEvent{
		Type:            "stock_update",
		Action:          "transaction_created",
		TransactionID:   tx.ID,
		TransactionType: tx.Type,
		Quantity:        tx.Quantity,
		PreviousStock:   tx.PreviousStock,
		NewStock:        tx.NewStock,
		LowStock:        p.HasLowStock(),
		Product: StockEventProduct{
			ID:           p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			MinimumStock: p.MinimumStock,
		},
		UserID:  tx.UserID,
		Message: fmt.Sprintf("%s of %d on '%s': %d -> %d", tx.Type, tx.Quantity, p.Name, tx.PreviousStock, tx.NewStock),
	}
}
