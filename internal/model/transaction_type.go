package model

type TransactionType string

const (
	TxInflow     TransactionType = "inflow"
	TxOutflow    TransactionType = "outflow"
	TxAdjustment TransactionType = "adjustment"
	TxCount      TransactionType = "count"
)

var TransactionTypes = []TransactionType{TxInflow, TxOutflow, TxAdjustment, TxCount}

func (t TransactionType) Valid() bool {
	switch t {
	case TxInflow, TxOutflow, TxAdjustment, TxCount:
		return true
	}
	return false
}

// IsAbsolute reports whether quantity is the target stock rather than a delta.
func (t TransactionType) IsAbsolute() bool {
	return t == TxAdjustment || t == TxCount
}

// MinQuantity is the smallest accepted quantity for the type. Absolute types
// accept zero so stock can be counted or adjusted down to nothing.
func (t TransactionType) MinQuantity() int {
	if t.IsAbsolute() {
		return 0
	}
	return 1
}

// Apply computes the stock that results from posting quantity on top of
// previous. The result is never negative. ok is false for unknown types.
func (t TransactionType) Apply(previous, quantity int) (newStock int, ok bool) {
	switch t {
	case TxInflow:
		return previous + quantity, true
	case TxOutflow:
		return max(0, previous-quantity), true
	case TxAdjustment, TxCount:
		return quantity, true
	}
	return previous, false
}
