package repository

import (
	"context"
	"strings"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductListQuery filters are combined with AND. Zero values are ignored.
type ProductListQuery struct {
	Search       string
	CategoryID   *uint
	Status       model.ProductStatus
	LowStockOnly bool
	Page         int
	Limit        int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	LowStock(ctx context.Context, limit int) ([]model.Product, error)
	UpdateDetails(ctx context.Context, product *model.Product) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ProductStatus, updatedBy string) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindForUpdate and UpdateStock run inside the caller's transaction (tx)
	FindForUpdate(tx *gorm.DB, id uuid.UUID, lock bool) (*model.Product, error)
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, expectedVersion int64, updatedBy string) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if s := strings.TrimSpace(q.Search); s != "" {
		like := likePattern(s)
		tx = tx.Where("(LOWER(name) LIKE LOWER(?) ESCAPE '\\' OR LOWER(sku) LIKE LOWER(?) ESCAPE '\\')", like, like)
	}
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.LowStockOnly {
		tx = tx.Where("current_stock <= minimum_stock")
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := tx.Preload("Category").
		Order("name ASC").Order("sku ASC").
		Offset((q.Page - 1) * q.Limit).Limit(q.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// LowStock returns active products at or below their minimum, largest shortfall first.
func (r *productRepo) LowStock(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("status = ?", model.ProductActive).
		Where("current_stock <= minimum_stock").
		Order("current_stock - minimum_stock ASC").Order("name ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// UpdateDetails writes master data only. current_stock and version belong to the ledger.
func (r *productRepo) UpdateDetails(ctx context.Context, product *model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"sku":             product.SKU,
			"name":            product.Name,
			"description":     product.Description,
			"category_id":     product.CategoryID,
			"unit_price":      product.UnitPrice,
			"minimum_stock":   product.MinimumStock,
			"unit_of_measure": product.UnitOfMeasure,
			"status":          product.Status,
			"updated_by":      product.UpdatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ProductStatus, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindForUpdate reads the product inside tx, taking a row lock when lock is set
func (r *productRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID, lock bool) (*model.Product, error) {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product model.Product
	if err := q.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateStock sets the stock and bumps the version, but only if the row still
// carries expectedVersion. It returns the number of rows changed (0 or 1).
func (r *productRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, expectedVersion int64, updatedBy string) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"current_stock": newStock,
			"version":       gorm.Expr("version + 1"),
			"updated_by":    updatedBy,
		})
	return res.RowsAffected, res.Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a substring pattern for LIKE ... ESCAPE '\'. Case is
// folded by the database's LOWER on both sides.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
