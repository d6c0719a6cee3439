package service

import (
	"context"
	"errors"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/serviceerrors"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInput carries product master data. OpeningStock is only read on create.
type ProductInput struct {
	SKU           string              `json:"sku" validate:"required,max=64"`
	Name          string              `json:"name" validate:"required,max=255"`
	Description   *string             `json:"description"`
	CategoryID    *uint               `json:"category_id"`
	UnitPrice     decimal.Decimal     `json:"unit_price"`
	MinimumStock  int                 `json:"minimum_stock" validate:"min=0"`
	UnitOfMeasure string              `json:"unit_of_measure" validate:"required,max=32"`
	Status        model.ProductStatus `json:"status" validate:"omitempty,product_status"`
	OpeningStock  int                 `json:"opening_stock" validate:"min=0"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, in ProductInput, actingUserID uuid.UUID) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput, actingUserID uuid.UUID) (*model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status model.ProductStatus, actingUserID uuid.UUID) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	categoryRepo    repository.CategoryRepository
	ledger          LedgerService
}

func NewProductService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, cRepo repository.CategoryRepository, ledger LedgerService) ProductService {
	return &productService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		categoryRepo:    cRepo,
		ledger:          ledger,
	}
}

func (s *productService) CreateProduct(ctx context.Context, in ProductInput, actingUserID uuid.UUID) (*model.Product, error) {
	if err := s.validateInput(ctx, in, uuid.Nil); err != nil {
		return nil, err
	}

	actor := actingUserID.String()
	product := &model.Product{
		SKU:             in.SKU,
		Name:            in.Name,
		Description:     in.Description,
		CategoryID:      in.CategoryID,
		UnitPrice:       in.UnitPrice.Round(2),
		MinimumStock:    in.MinimumStock,
		UnitOfMeasure:   in.UnitOfMeasure,
		Status:          in.Status,
		CreatedByUserID: &actingUserID,
	}
	if product.Status == "" {
		product.Status = model.ProductActive
	}
	product.CreatedBy = actor
	product.UpdatedBy = actor

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, insertError(err, "SKU already exists", "failed to create product")
	}
	log.Info().Str("product_id", product.ID.String()).Str("sku", product.SKU).Str("user_id", actor).Msg("product created")

	// Opening stock is a ledger entry like any other movement.
	if in.OpeningStock > 0 {
		if _, err := s.ledger.ApplyTransaction(ctx, ApplyTransactionInput{
			ProductID:    product.ID,
			Type:         model.TxCount,
			Quantity:     ptr(in.OpeningStock),
			ActingUserID: actingUserID,
			Notes:        ptr("opening stock"),
		}); err != nil {
			return nil, err
		}
	}

	return s.GetProduct(ctx, product.ID)
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput, actingUserID uuid.UUID) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "product not found", "failed to load product")
	}
	if err := s.validateInput(ctx, in, id); err != nil {
		return nil, err
	}

	existing.SKU = in.SKU
	existing.Name = in.Name
	existing.Description = in.Description
	existing.CategoryID = in.CategoryID
	existing.UnitPrice = in.UnitPrice.Round(2)
	existing.MinimumStock = in.MinimumStock
	existing.UnitOfMeasure = in.UnitOfMeasure
	if in.Status != "" {
		existing.Status = in.Status
	}
	existing.UpdatedBy = actingUserID.String()

	if err := s.productRepo.UpdateDetails(ctx, existing); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, serviceerrors.NewConflictError("SKU already exists")
		}
		return nil, repoError(err, "product not found", "failed to update product")
	}
	return s.GetProduct(ctx, id)
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "product not found", "failed to load product")
	}
	return product, nil
}

func (s *productService) ChangeStatus(ctx context.Context, id uuid.UUID, status model.ProductStatus, actingUserID uuid.UUID) (*model.Product, error) {
	if !status.Valid() {
		return nil, serviceerrors.NewValidationError("invalid product status",
			[]serviceerrors.FieldError{{Field: "status", Tag: "product_status"}})
	}
	if err := s.productRepo.UpdateStatus(ctx, id, status, actingUserID.String()); err != nil {
		return nil, repoError(err, "product not found", "failed to update product status")
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product that never moved stock. Products with
// ledger history are archived through ChangeStatus instead.
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return repoError(err, "product not found", "failed to load product")
	}

	count, err := s.transactionRepo.CountByProduct(ctx, id)
	if err != nil {
		return serviceerrors.NewStorageError("failed to count stock transactions", err)
	}
	if count > 0 {
		return serviceerrors.NewConflictError("product has stock transactions, discontinue it instead")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return repoError(err, "product not found", "failed to delete product")
	}
	return nil
}

// validateInput checks shape, price, SKU uniqueness (ignoring selfID) and category.
func (s *productService) validateInput(ctx context.Context, in ProductInput, selfID uuid.UUID) error {
	if err := validator.Validate(in); err != nil {
		return err
	}
	if in.UnitPrice.IsNegative() {
		return serviceerrors.NewValidationError("unit price must not be negative",
			[]serviceerrors.FieldError{{Field: "unit_price", Tag: "min", Param: "0"}})
	}

	existing, err := s.productRepo.FindBySKU(ctx, in.SKU)
	switch {
	case err == nil && existing.ID != selfID:
		return serviceerrors.NewConflictError("SKU already exists")
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return serviceerrors.NewStorageError("failed to check SKU", err)
	}

	if in.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return serviceerrors.NewValidationError("category does not exist",
					[]serviceerrors.FieldError{{Field: "category_id", Tag: "exists"}})
			}
			return serviceerrors.NewStorageError("failed to load category", err)
		}
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
