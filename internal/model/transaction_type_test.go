package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionType_Apply(t *testing.T) {
	tests := []struct {
		name     string
		txType   TransactionType
		previous int
		quantity int
		want     int
	}{
		{"inflow adds", TxInflow, 10, 5, 15},
		{"outflow subtracts", TxOutflow, 10, 4, 6},
		{"outflow to exactly zero", TxOutflow, 10, 10, 0},
		{"outflow clamps at zero", TxOutflow, 20, 25, 0},
		{"adjustment sets absolute value", TxAdjustment, 40, 12, 12},
		{"adjustment to zero", TxAdjustment, 40, 0, 0},
		{"count sets absolute value upwards", TxCount, 3, 30, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.txType.Apply(tt.previous, tt.quantity)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransactionType_ApplyUnknown(t *testing.T) {
	got, ok := TransactionType("transfer").Apply(7, 3)
	assert.False(t, ok)
	assert.Equal(t, 7, got)
}

func TestTransactionType_Rules(t *testing.T) {
	for _, tt := range TransactionTypes {
		assert.True(t, tt.Valid(), tt)
	}
	assert.False(t, TransactionType("IN").Valid())

	assert.Equal(t, 1, TxInflow.MinQuantity())
	assert.Equal(t, 1, TxOutflow.MinQuantity())
	assert.Equal(t, 0, TxAdjustment.MinQuantity())
	assert.Equal(t, 0, TxCount.MinQuantity())
}
