package service

import (
	"context"
	"sync"
	"testing"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/database/dbtest"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	products   repository.ProductRepository
	txs        repository.TransactionRepository
	users      repository.UserRepository
	roles      repository.RoleRepository
	privileges repository.PrivilegeRepository
	categories repository.CategoryRepository
	notifier   *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	f := &fixture{
		db:         db,
		products:   repository.NewProductRepo(db),
		txs:        repository.NewTransactionRepo(db),
		users:      repository.NewUserRepo(db),
		roles:      repository.NewRoleRepo(db),
		privileges: repository.NewPrivilegeRepo(db),
		categories: repository.NewCategoryRepo(db),
		notifier:   &recordingNotifier{},
	}
	require.NoError(t, SeedDefaults(context.Background(), f.privileges, f.roles, f.users, config.SeedConfig{}))
	return f
}

func (f *fixture) ledger(strategy string, retries int) *ledgerService {
	return NewLedgerService(f.db, f.products, f.txs, f.notifier, LedgerOptions{
		LockStrategy:    strategy,
		ConflictRetries: retries,
	}).(*ledgerService)
}

// user creates an active user holding roleCode
func (f *fixture) user(t *testing.T, email, roleCode string) *model.User {
	t.Helper()
	ctx := context.Background()
	role, err := f.roles.FindByCode(ctx, roleCode)
	require.NoError(t, err)

	u := &model.User{Email: email, FullName: email, RoleID: &role.ID, IsActive: true}
	require.NoError(t, u.SetPassword("password123"))
	require.NoError(t, f.users.Create(ctx, u))
	return u
}

// product inserts a product with the given stock, bypassing the ledger
func (f *fixture) product(t *testing.T, sku, name string, stock, minimum int) *model.Product {
	t.Helper()
	p := &model.Product{
		SKU:           sku,
		Name:          name,
		UnitPrice:     decimal.NewFromFloat(9.99),
		CurrentStock:  stock,
		MinimumStock:  minimum,
		UnitOfMeasure: "pcs",
		Status:        model.ProductActive,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) *model.Product {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []any
}

func (n *recordingNotifier) Publish(event any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}
