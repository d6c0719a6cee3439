package repository

import (
	"context"
	"strings"
	"time"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionListQuery selects ledger rows. From is inclusive, To is exclusive.
type TransactionListQuery struct {
	Search string
	Type   model.TransactionType
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// TransactionRepository is append-only: there is no update or delete path.
type TransactionRepository interface {
	Create(tx *gorm.DB, transaction *model.StockTransaction) error
	FindByID(ctx context.Context, id uint) (*model.StockTransaction, error)
	List(ctx context.Context, q TransactionListQuery) ([]model.StockTransaction, int64, error)
	Recent(ctx context.Context, limit int) ([]model.StockTransaction, error)
	Since(ctx context.Context, from time.Time) ([]model.StockTransaction, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// Create inserts the row inside the caller's transaction
func (r *transactionRepo) Create(tx *gorm.DB, transaction *model.StockTransaction) error {
	return tx.Omit(clause.Associations).Create(transaction).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id uint) (*model.StockTransaction, error) {
	var transaction model.StockTransaction
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Preload("User.Role").
		First(&transaction, id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) List(ctx context.Context, q TransactionListQuery) ([]model.StockTransaction, int64, error) {
	var transactions []model.StockTransaction
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.StockTransaction{})

	if s := strings.TrimSpace(q.Search); s != "" {
		like := likePattern(s)
		products := r.db.Model(&model.Product{}).
			Select("id").
			Where("LOWER(name) LIKE LOWER(?) ESCAPE '\\' OR LOWER(sku) LIKE LOWER(?) ESCAPE '\\'", like, like)
		tx = tx.Where("(LOWER(reference_number) LIKE LOWER(?) ESCAPE '\\' OR product_id IN (?))", like, products)
	}
	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}
	if q.From != nil {
		tx = tx.Where("transaction_date >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("transaction_date < ?", *q.To)
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := tx.Preload("Product").Preload("User").
		Order("transaction_date DESC").Order("id DESC").
		Offset((q.Page - 1) * q.Limit).Limit(q.Limit).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

func (r *transactionRepo) Recent(ctx context.Context, limit int) ([]model.StockTransaction, error) {
	var transactions []model.StockTransaction
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("User").
		Order("transaction_date DESC").Order("id DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

// Since returns rows with transaction_date >= from, oldest first, without relations.
func (r *transactionRepo) Since(ctx context.Context, from time.Time) ([]model.StockTransaction, error) {
	var transactions []model.StockTransaction
	err := r.db.WithContext(ctx).
		Where("transaction_date >= ?", from).
		Order("transaction_date ASC").Order("id ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StockTransaction{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}
