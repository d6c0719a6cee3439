package service

import (
	"context"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/serviceerrors"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	dashboardRecentTransactions = 10
	dashboardLowStockProducts   = 5
	dashboardRecentOrders       = 5
	defaultMovementMonths       = 6
	maxMovementMonths           = 24
)

// Page is one page of a listing plus pagination metadata
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

type ProductFilter struct {
	Search       string
	CategoryID   *uint
	Status       model.ProductStatus
	LowStockOnly bool
}

// TransactionFilter date bounds are whole days, both inclusive, in UTC.
type TransactionFilter struct {
	Search    string
	Type      model.TransactionType
	StartDate *time.Time
	EndDate   *time.Time
}

type DashboardSummary struct {
	Stats              repository.DashboardCounts `json:"stats"`
	RecentTransactions []model.StockTransaction  `json:"recent_transactions"`
	LowStockProducts   []model.Product           `json:"low_stock_products"`
}

// AdminSummary is the extra dashboard section for user administrators
type AdminSummary struct {
	TotalUsers           int64                 `json:"total_users"`
	RecentPurchaseOrders []model.PurchaseOrder `json:"recent_purchase_orders"`
}

// MonthlyMovement aggregates one calendar month (YYYY-MM, UTC)
type MonthlyMovement struct {
	Month   string `json:"month"`
	Count   int    `json:"count"`
	Inflow  int    `json:"inflow"`
	Outflow int    `json:"outflow"`
}

// QueryService is read-only
type QueryService interface {
	ListProducts(ctx context.Context, filter ProductFilter, page, pageSize int) (*Page[model.Product], error)
	ListTransactions(ctx context.Context, filter TransactionFilter, page, pageSize int) (*Page[model.StockTransaction], error)
	GetTransaction(ctx context.Context, id uint) (*model.StockTransaction, error)
	ComputeDashboardSummary(ctx context.Context) (*DashboardSummary, error)
	ComputeAdminSummary(ctx context.Context) (*AdminSummary, error)
	StockMovement(ctx context.Context, months int) ([]MonthlyMovement, error)
}

type queryService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	dashboardRepo   repository.DashboardRepository
	now             func() time.Time
}

func NewQueryService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, dRepo repository.DashboardRepository) QueryService {
	return &queryService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		dashboardRepo:   dRepo,
		now:             time.Now,
	}
}

func (s *queryService) ListProducts(ctx context.Context, filter ProductFilter, page, pageSize int) (*Page[model.Product], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, serviceerrors.NewInvalidArgumentError("invalid product status filter")
	}
	page, pageSize = normalizePage(page, pageSize)

	products, total, err := s.productRepo.List(ctx, repository.ProductListQuery{
		Search:       filter.Search,
		CategoryID:   filter.CategoryID,
		Status:       filter.Status,
		LowStockOnly: filter.LowStockOnly,
		Page:         page,
		Limit:        pageSize,
	})
	if err != nil {
		return nil, serviceerrors.NewStorageError("failed to list products", err)
	}
	return newPage(products, total, page, pageSize), nil
}

func (s *queryService) ListTransactions(ctx context.Context, filter TransactionFilter, page, pageSize int) (*Page[model.StockTransaction], error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, serviceerrors.NewInvalidArgumentError("invalid transaction type filter")
	}
	page, pageSize = normalizePage(page, pageSize)

	q := repository.TransactionListQuery{
		Search: filter.Search,
		Type:   filter.Type,
		Page:   page,
		Limit:  pageSize,
	}
	if filter.StartDate != nil {
		from := startOfDay(*filter.StartDate)
		q.From = &from
	}
	if filter.EndDate != nil {
		to := startOfDay(*filter.EndDate).AddDate(0, 0, 1)
		q.To = &to
	}

	transactions, total, err := s.transactionRepo.List(ctx, q)
	if err != nil {
		return nil, serviceerrors.NewStorageError("failed to list stock transactions", err)
	}
	return newPage(transactions, total, page, pageSize), nil
}

func (s *queryService) GetTransaction(ctx context.Context, id uint) (*model.StockTransaction, error) {
	transaction, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "stock transaction not found", "failed to load stock transaction")
	}
	return transaction, nil
}

func (s *queryService) ComputeDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	counts, err := s.dashboardRepo.GetCounts(ctx)
	if err != nil {
		return nil, serviceerrors.NewStorageError("failed to count dashboard stats", err)
	}

	recent, err := s.transactionRepo.Recent(ctx, dashboardRecentTransactions)
	if err != nil {
		return nil, serviceerrors.NewStorageError("failed to load recent transactions", err)
	}

	lowStock, err := s.productRepo.LowStock(ctx, dashboardLowStockProducts)
	if err != nil {
		return nil, serviceerrors.NewStorageError("failed to load low stock products", err)
	}

	return &DashboardSummary{
		Stats:              *counts,
		RecentTransactions: nonNil(recent),
		LowStockProducts:   nonNil(lowStock),
	}, nil
}

func (s *queryService) ComputeAdminSummary(ctx context.Context) (*AdminSummary, error) {
	users, err := s.dashboardRepo.CountUsers(ctx)
	if err != nil {
		return nil, serviceerrors.NewStorageError("failed to count users", err)
	}

	orders, err := s.dashboardRepo.RecentPurchaseOrders(ctx, dashboardRecentOrders)
	if err != nil {
		return nil, serviceerrors.NewStorageError("failed to load recent purchase orders", err)
	}

	return &AdminSummary{
		TotalUsers:           users,
		RecentPurchaseOrders: nonNil(orders),
	}, nil
}

// StockMovement returns one entry per month, oldest first, including the current month.
func (s *queryService) StockMovement(ctx context.Context, months int) ([]MonthlyMovement, error) {
	if months <= 0 {
		months = defaultMovementMonths
	}
	months = min(months, maxMovementMonths)

	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	transactions, err := s.transactionRepo.Since(ctx, from)
	if err != nil {
		return nil, serviceerrors.NewStorageError("failed to load stock movement", err)
	}

	result := make([]MonthlyMovement, months)
	index := make(map[string]int, months)
	for i := range result {
		key := from.AddDate(0, i, 0).Format("2006-01")
		result[i].Month = key
		index[key] = i
	}

	for _, t := range transactions {
		i, ok := index[t.TransactionDate.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		result[i].Count++
		switch t.Type {
		case model.TxInflow:
			result[i].Inflow += t.Quantity
		case model.TxOutflow:
			result[i].Outflow += t.Quantity
		}
	}
	return result, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func newPage[T any](items []T, total int64, page, pageSize int) *Page[T] {
	return &Page[T]{
		Items:      nonNil(items),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
