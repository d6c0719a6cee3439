package repository

import (
	"context"

	"go-inventory-ledger/internal/model"

	"gorm.io/gorm"
)

// DashboardCounts for the overview cards
type DashboardCounts struct {
	TotalProducts         int64 `json:"total_products"`
	LowStockProducts      int64 `json:"low_stock_products"`
	TotalSuppliers        int64 `json:"total_suppliers"`
	PendingPurchaseOrders int64 `json:"pending_orders"`
}

type DashboardRepository interface {
	GetCounts(ctx context.Context) (*DashboardCounts, error)
	CountUsers(ctx context.Context) (int64, error)
	RecentPurchaseOrders(ctx context.Context, limit int) ([]model.PurchaseOrder, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db}
}

func (r *dashboardRepo) GetCounts(ctx context.Context) (*DashboardCounts, error) {
	var counts DashboardCounts
	db := r.db.WithContext(ctx)

	// Active products
	if err := db.Model(&model.Product{}).Where("status = ?", model.ProductActive).Count(&counts.TotalProducts).Error; err != nil {
		return nil, err
	}

	// Low stock across every status
	if err := db.Model(&model.Product{}).Where("current_stock <= minimum_stock").Count(&counts.LowStockProducts).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.Supplier{}).Where("status = ?", model.SupplierActive).Count(&counts.TotalSuppliers).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.PurchaseOrder{}).Where("status = ?", model.POPending).Count(&counts.PendingPurchaseOrders).Error; err != nil {
		return nil, err
	}

	return &counts, nil
}

func (r *dashboardRepo) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error
	return total, err
}

// RecentPurchaseOrders returns the newest orders with their supplier
func (r *dashboardRepo) RecentPurchaseOrders(ctx context.Context, limit int) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Order("order_date DESC").Order("id DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
