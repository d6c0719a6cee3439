package service

import (
	"context"
	"strconv"
	"time"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/serviceerrors"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ApplyTransactionInput is one stock movement to post. For adjustment and
// count, Quantity is the absolute stock the product ends up with.
//
// TransactionDate is never read from request bodies. It exists for in-process
// backfills and may not lie in the future.
type ApplyTransactionInput struct {
	ProductID       uuid.UUID             `json:"product_id" validate:"uuid_required"`
	Type            model.TransactionType `json:"type" validate:"required,tx_type"`
	Quantity        *int                  `json:"quantity" validate:"required"`
	ActingUserID    uuid.UUID             `json:"-" validate:"uuid_required"`
	ReferenceNumber *string               `json:"reference_number" validate:"omitempty,max=255"`
	Notes           *string               `json:"notes"`
	TransactionDate *time.Time            `json:"-"`
}

type LedgerService interface {
	ApplyTransaction(ctx context.Context, in ApplyTransactionInput) (*model.StockTransaction, error)
}

type LedgerOptions struct {
	// LockStrategy is config.LockPessimistic (row lock) or config.LockOptimistic (version check only)
	LockStrategy string
	// ConflictRetries is how many times a version conflict is retried before it is returned
	ConflictRetries int
}

type ledgerService struct {
	db              *gorm.DB
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	notifier        Notifier
	lockRows        bool
	conflictRetries int
	now             func() time.Time
}

func NewLedgerService(db *gorm.DB, pRepo repository.ProductRepository, tRepo repository.TransactionRepository, notifier Notifier, opts LedgerOptions) LedgerService {
	return &ledgerService{
		db:              db,
		productRepo:     pRepo,
		transactionRepo: tRepo,
		notifier:        notifier,
		lockRows:        opts.LockStrategy != config.LockOptimistic,
		conflictRetries: max(0, opts.ConflictRetries),
		now:             time.Now,
	}
}

func (s *ledgerService) ApplyTransaction(ctx context.Context, in ApplyTransactionInput) (*model.StockTransaction, error) {
	if err := validateApplyInput(in); err != nil {
		return nil, err
	}
	qty := *in.Quantity

	transactionDate := s.now().UTC()
	if in.TransactionDate != nil && !in.TransactionDate.IsZero() {
		if in.TransactionDate.After(transactionDate) {
			return nil, serviceerrors.NewValidationError(
				"transaction date cannot be in the future",
				[]serviceerrors.FieldError{{Field: "transaction_date", Tag: "max"}},
			)
		}
		transactionDate = in.TransactionDate.UTC()
	}

	for attempt := 0; ; attempt++ {
		record, product, err := s.apply(ctx, in, qty, transactionDate)
		if err == nil {
			log.Debug().
				Uint("transaction_id", record.ID).
				Str("product_id", product.ID.String()).
				Str("type", string(record.Type)).
				Int("previous_stock", record.PreviousStock).
				Int("new_stock", record.NewStock).
				Msg("stock transaction applied")

			if s.notifier != nil {
				s.notifier.Publish(newStockUpdateEvent(record, product))
			}
			record.Product = product
			return record, nil
		}

		if serviceerrors.IsOfKind(err, serviceerrors.KindConcurrencyConflict) && attempt < s.conflictRetries {
			log.Warn().Str("product_id", in.ProductID.String()).Int("attempt", attempt+1).Msg("stock version conflict, retrying")
			continue
		}
		if serviceerrors.IsOfKind(err, serviceerrors.KindStorageFailure) {
			log.Error().Err(err).Str("product_id", in.ProductID.String()).Msg("stock transaction failed")
		}
		return nil, err
	}
}

// apply runs one read-modify-write. Product update and ledger insert commit
// together or not at all.
func (s *ledgerService) apply(ctx context.Context, in ApplyTransactionInput, qty int, transactionDate time.Time) (*model.StockTransaction, *model.Product, error) {
	var record *model.StockTransaction
	var product *model.Product

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.productRepo.FindForUpdate(tx, in.ProductID, s.lockRows)
		if err != nil {
			return repoError(err, "product not found", "failed to load product")
		}

		newStock, _ := in.Type.Apply(p.CurrentStock, qty)
		actor := in.ActingUserID.String()

		changed, err := s.productRepo.UpdateStock(tx, p.ID, newStock, p.Version, actor)
		if err != nil {
			return serviceerrors.NewStorageError("failed to update product stock", err)
		}
		if changed == 0 {
			return serviceerrors.NewConcurrencyConflictError("product stock was changed by another transaction, please retry")
		}

		record = &model.StockTransaction{
			ProductID:       p.ID,
			UserID:          in.ActingUserID,
			Type:            in.Type,
			Quantity:        qty,
			PreviousStock:   p.CurrentStock,
			NewStock:        newStock,
			ReferenceNumber: in.ReferenceNumber,
			Notes:           in.Notes,
			TransactionDate: transactionDate,
		}
		if err := s.transactionRepo.Create(tx, record); err != nil {
			return serviceerrors.NewStorageError("failed to record stock transaction", err)
		}

		p.CurrentStock = newStock
		p.Version++
		p.UpdatedBy = actor
		product = p
		return nil
	})
	if err != nil {
		if _, ok := serviceerrors.As(err); ok {
			return nil, nil, err
		}
		return nil, nil, serviceerrors.NewStorageError("failed to commit stock transaction", err)
	}
	return record, product, nil
}

func validateApplyInput(in ApplyTransactionInput) error {
	if err := validator.Validate(in); err != nil {
		return err
	}
	if minQty := in.Type.MinQuantity(); *in.Quantity < minQty {
		return serviceerrors.NewValidationError(
			"quantity is below the minimum for this transaction type",
			[]serviceerrors.FieldError{{Field: "quantity", Tag: "min", Param: strconv.Itoa(minQty)}},
		)
	}
	return nil
}
