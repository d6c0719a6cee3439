package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/serviceerrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApplyTransaction_Effects(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		txType    model.TransactionType
		quantity  int
		wantStock int
	}{
		{"inflow adds", 10, model.TxInflow, 5, 15},
		{"outflow subtracts", 10, model.TxOutflow, 4, 6},
		{"outflow clamps at zero", 20, model.TxOutflow, 25, 0},
		{"adjustment sets absolute value", 10, model.TxAdjustment, 3, 3},
		{"adjustment to zero", 10, model.TxAdjustment, 0, 0},
		{"count sets absolute value", 4, model.TxCount, 12, 12},
		{"count to zero", 4, model.TxCount, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			staff := f.user(t, "staff@example.com", model.RoleWarehouseStaff)
			p := f.product(t, "SKU-1", "Widget", tt.stock, 5)
			ledger := f.ledger(config.LockPessimistic, 0)

			tx, err := ledger.ApplyTransaction(context.Background(), ApplyTransactionInput{
				ProductID:    p.ID,
				Type:         tt.txType,
				Quantity:     ptr(tt.quantity),
				ActingUserID: staff.ID,
			})
			require.NoError(t, err)

			assert.NotZero(t, tx.ID)
			assert.Equal(t, tt.stock, tx.PreviousStock)
			assert.Equal(t, tt.wantStock, tx.NewStock)
			assert.Equal(t, tt.quantity, tx.Quantity)
			assert.Equal(t, staff.ID, tx.UserID)
			require.NotNil(t, tx.Product)
			assert.Equal(t, tt.wantStock, tx.Product.CurrentStock)

			stored := f.reload(t, p.ID)
			assert.Equal(t, tt.wantStock, stored.CurrentStock)
			assert.Equal(t, p.Version+1, stored.Version)
			assert.Equal(t, 1, f.notifier.count())
		})
	}
}

func TestApplyTransaction_OutflowBeyondStock(t *testing.T) {
	f := newFixture(t)
	staff := f.user(t, "staff@example.com", model.RoleWarehouseStaff)
	p := f.product(t, "SKU-1", "Widget", 20, 5)
	ledger := f.ledger(config.LockPessimistic, 0)

	tx, err := ledger.ApplyTransaction(context.Background(), ApplyTransactionInput{
		ProductID:    p.ID,
		Type:         model.TxOutflow,
		Quantity:     ptr(25),
		ActingUserID: staff.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 20, tx.PreviousStock)
	assert.Equal(t, 0, tx.NewStock)
	assert.Equal(t, 0, f.reload(t, p.ID).CurrentStock)

	require.Len(t, f.notifier.events, 1)
	event, ok := f.notifier.events[0].(StockUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, "stock_update", event.Type)
	assert.Equal(t, 20, event.PreviousStock)
	assert.Equal(t, 0, event.NewStock)
	assert.True(t, event.LowStock)
	assert.Equal(t, "SKU-1", event.Product.SKU)
}

func TestApplyTransaction_LedgerMatchesProductStock(t *testing.T) {
	f := newFixture(t)
	staff := f.user(t, "staff@example.com", model.RoleWarehouseStaff)
	p := f.product(t, "SKU-1", "Widget", 10, 5)
	ledger := f.ledger(config.LockPessimistic, 0)
	ctx := context.Background()

	steps := []struct {
		txType   model.TransactionType
		quantity int
	}{
		{model.TxInflow, 7},
		{model.TxOutflow, 3},
		{model.TxAdjustment, 40},
		{model.TxOutflow, 100},
		{model.TxCount, 9},
		{model.TxInflow, 1},
	}

	previous := 10
	for _, step := range steps {
		tx, err := ledger.ApplyTransaction(ctx, ApplyTransactionInput{
			ProductID:    p.ID,
			Type:         step.txType,
			Quantity:     ptr(step.quantity),
			ActingUserID: staff.ID,
		})
		require.NoError(t, err)

		want, _ := step.txType.Apply(previous, step.quantity)
		assert.Equal(t, previous, tx.PreviousStock)
		assert.Equal(t, want, tx.NewStock)
		assert.Equal(t, tx.NewStock, f.reload(t, p.ID).CurrentStock)
		previous = tx.NewStock
	}

	count, err := f.txs.CountByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len(steps)), count)
	assert.Equal(t, int64(len(steps)), f.reload(t, p.ID).Version)
}

func TestApplyTransaction_Rejected(t *testing.T) {
	f := newFixture(t)
	staff := f.user(t, "staff@example.com", model.RoleWarehouseStaff)
	p := f.product(t, "SKU-1", "Widget", 10, 5)
	ledger := f.ledger(config.LockPessimistic, 0)

	tooLong := strings.Repeat("r", 256)
	tomorrow := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name     string
		in       ApplyTransactionInput
		wantKind serviceerrors.ErrorKind
		field    string
	}{
		{"unknown type", ApplyTransactionInput{ProductID: p.ID, Type: "transfer", Quantity: ptr(1), ActingUserID: staff.ID}, serviceerrors.KindInvalidArgument, "type"},
		{"missing type", ApplyTransactionInput{ProductID: p.ID, Quantity: ptr(1), ActingUserID: staff.ID}, serviceerrors.KindInvalidArgument, "type"},
		{"zero inflow", ApplyTransactionInput{ProductID: p.ID, Type: model.TxInflow, Quantity: ptr(0), ActingUserID: staff.ID}, serviceerrors.KindInvalidArgument, "quantity"},
		{"negative outflow", ApplyTransactionInput{ProductID: p.ID, Type: model.TxOutflow, Quantity: ptr(-2), ActingUserID: staff.ID}, serviceerrors.KindInvalidArgument, "quantity"},
		{"missing adjustment quantity", ApplyTransactionInput{ProductID: p.ID, Type: model.TxAdjustment, ActingUserID: staff.ID}, serviceerrors.KindInvalidArgument, "quantity"},
		{"missing count quantity", ApplyTransactionInput{ProductID: p.ID, Type: model.TxCount, ActingUserID: staff.ID}, serviceerrors.KindInvalidArgument, "quantity"},
		{"future transaction date", ApplyTransactionInput{ProductID: p.ID, Type: model.TxInflow, Quantity: ptr(1), ActingUserID: staff.ID, TransactionDate: &tomorrow}, serviceerrors.KindInvalidArgument, "transaction_date"},
		{"negative count", ApplyTransactionInput{ProductID: p.ID, Type: model.TxCount, Quantity: ptr(-1), ActingUserID: staff.ID}, serviceerrors.KindInvalidArgument, "quantity"},
		{"reference too long", ApplyTransactionInput{ProductID: p.ID, Type: model.TxInflow, Quantity: ptr(1), ActingUserID: staff.ID, ReferenceNumber: &tooLong}, serviceerrors.KindInvalidArgument, "reference_number"},
		{"missing actor", ApplyTransactionInput{ProductID: p.ID, Type: model.TxInflow, Quantity: ptr(1)}, serviceerrors.KindInvalidArgument, "ActingUserID"},
		{"missing product id", ApplyTransactionInput{Type: model.TxInflow, Quantity: ptr(1), ActingUserID: staff.ID}, serviceerrors.KindInvalidArgument, "product_id"},
		{"unknown product", ApplyTransactionInput{ProductID: uuid.New(), Type: model.TxInflow, Quantity: ptr(1), ActingUserID: staff.ID}, serviceerrors.KindNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.ApplyTransaction(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, serviceerrors.IsOfKind(err, tt.wantKind), "got %v", err)

			if tt.field != "" {
				svcErr, ok := serviceerrors.As(err)
				require.True(t, ok)
				require.NotEmpty(t, svcErr.Fields)
				assert.Equal(t, tt.field, svcErr.Fields[0].Field)
			}
		})
	}

	stored := f.reload(t, p.ID)
	assert.Equal(t, 10, stored.CurrentStock)
	assert.Equal(t, int64(0), stored.Version)
	count, err := f.txs.CountByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, f.notifier.count())
}

func TestApplyTransaction_ConcurrentInflows(t *testing.T) {
	for _, strategy := range []string{config.LockPessimistic, config.LockOptimistic} {
		t.Run(strategy, func(t *testing.T) {
			f := newFixture(t)
			staff := f.user(t, "staff@example.com", model.RoleWarehouseStaff)
			p := f.product(t, "SKU-1", "Widget", 10, 5)
			ledger := f.ledger(strategy, 3)

			var wg sync.WaitGroup
			errs := make(chan error, 2)
			for _, q := range []int{5, 3} {
				wg.Add(1)
				go func(q int) {
					defer wg.Done()
					_, err := ledger.ApplyTransaction(context.Background(), ApplyTransactionInput{
						ProductID:    p.ID,
						Type:         model.TxInflow,
						Quantity:     ptr(q),
						ActingUserID: staff.ID,
					})
					errs <- err
				}(q)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			assert.Equal(t, 18, f.reload(t, p.ID).CurrentStock)

			var rows []model.StockTransaction
			require.NoError(t, f.db.Order("id ASC").Find(&rows, "product_id = ?", p.ID).Error)
			require.Len(t, rows, 2)
			assert.Equal(t, 10, rows[0].PreviousStock)
			assert.Equal(t, rows[0].NewStock, rows[1].PreviousStock)
			assert.Equal(t, 18, rows[1].NewStock)
		})
	}
}

// staleProductRepo hands out an outdated version for the first n reads.
type staleProductRepo struct {
	repository.ProductRepository
	mu        sync.Mutex
	staleLeft int
}

func (r *staleProductRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID, lock bool) (*model.Product, error) {
	p, err := r.ProductRepository.FindForUpdate(tx, id, lock)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.staleLeft > 0 {
		r.staleLeft--
		p.Version--
	}
	return p, nil
}

func TestApplyTransaction_OptimisticConflict(t *testing.T) {
	t.Run("retried until it succeeds", func(t *testing.T) {
		f := newFixture(t)
		staff := f.user(t, "staff@example.com", model.RoleWarehouseStaff)
		p := f.product(t, "SKU-1", "Widget", 10, 5)

		stale := &staleProductRepo{ProductRepository: f.products, staleLeft: 2}
		ledger := NewLedgerService(f.db, stale, f.txs, f.notifier, LedgerOptions{LockStrategy: config.LockOptimistic, ConflictRetries: 2})

		tx, err := ledger.ApplyTransaction(context.Background(), ApplyTransactionInput{
			ProductID: p.ID, Type: model.TxInflow, Quantity: ptr(5), ActingUserID: staff.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 15, tx.NewStock)
		assert.Equal(t, 15, f.reload(t, p.ID).CurrentStock)
		assert.Equal(t, 1, f.notifier.count())
	})

	t.Run("surfaced when retries run out", func(t *testing.T) {
		f := newFixture(t)
		staff := f.user(t, "staff@example.com", model.RoleWarehouseStaff)
		p := f.product(t, "SKU-1", "Widget", 10, 5)

		stale := &staleProductRepo{ProductRepository: f.products, staleLeft: 5}
		ledger := NewLedgerService(f.db, stale, f.txs, f.notifier, LedgerOptions{LockStrategy: config.LockOptimistic, ConflictRetries: 1})

		_, err := ledger.ApplyTransaction(context.Background(), ApplyTransactionInput{
			ProductID: p.ID, Type: model.TxInflow, Quantity: ptr(5), ActingUserID: staff.ID,
		})
		require.Error(t, err)
		assert.True(t, serviceerrors.IsOfKind(err, serviceerrors.KindConcurrencyConflict))
		assert.Contains(t, err.Error(), "please retry")

		assert.Equal(t, 10, f.reload(t, p.ID).CurrentStock)
		count, err := f.txs.CountByProduct(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Zero(t, f.notifier.count())
		assert.Equal(t, 3, stale.staleLeft)
	})
}

func TestApplyTransaction_TransactionDate(t *testing.T) {
	f := newFixture(t)
	staff := f.user(t, "staff@example.com", model.RoleWarehouseStaff)
	p := f.product(t, "SKU-1", "Widget", 10, 5)
	ledger := f.ledger(config.LockPessimistic, 0)
	fixed := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return fixed }
	ctx := context.Background()

	defaulted, err := ledger.ApplyTransaction(ctx, ApplyTransactionInput{
		ProductID: p.ID, Type: model.TxInflow, Quantity: ptr(1), ActingUserID: staff.ID,
	})
	require.NoError(t, err)
	assert.True(t, fixed.Equal(defaulted.TransactionDate))

	jakarta := time.FixedZone("WIB", 7*60*60)
	given := time.Date(2025, 2, 1, 8, 30, 0, 0, jakarta)
	explicit, err := ledger.ApplyTransaction(ctx, ApplyTransactionInput{
		ProductID: p.ID, Type: model.TxInflow, Quantity: ptr(1), ActingUserID: staff.ID, TransactionDate: &given,
	})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, explicit.TransactionDate.Location())
	assert.True(t, given.Equal(explicit.TransactionDate))
}

func TestStockTransaction_Immutable(t *testing.T) {
	f := newFixture(t)
	staff := f.user(t, "staff@example.com", model.RoleWarehouseStaff)
	p := f.product(t, "SKU-1", "Widget", 10, 5)
	ledger := f.ledger(config.LockPessimistic, 0)

	tx, err := ledger.ApplyTransaction(context.Background(), ApplyTransactionInput{
		ProductID: p.ID, Type: model.TxInflow, Quantity: ptr(2), ActingUserID: staff.ID,
	})
	require.NoError(t, err)

	stored := model.StockTransaction{ID: tx.ID}
	assert.ErrorIs(t, f.db.Model(&stored).Update("quantity", 99).Error, model.ErrImmutableTransaction)
	assert.ErrorIs(t, f.db.Delete(&stored).Error, model.ErrImmutableTransaction)

	reloaded, err := f.txs.FindByID(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Quantity)
}
