package validator

import (
	"errors"
	"reflect"
	"strings"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/serviceerrors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Report fields by their JSON name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
	validate.RegisterValidation("tx_type", func(fl validator.FieldLevel) bool {
		return model.TransactionType(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("product_status", func(fl validator.FieldLevel) bool {
		return model.ProductStatus(fl.Field().String()).Valid()
	})
}

// ValidateStruct returns one entry per failed rule, or nil.
func ValidateStruct(data interface{}) []serviceerrors.FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []serviceerrors.FieldError{{Field: "", Tag: err.Error()}}
	}

	fields := make([]serviceerrors.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, serviceerrors.FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return fields
}

// Validate wraps ValidateStruct into an InvalidArgument service error.
func Validate(data interface{}) error {
	if fields := ValidateStruct(data); len(fields) > 0 {
		first := fields[0]
		return serviceerrors.NewValidationError(
			"validation failed: field '"+first.Field+"' failed on tag '"+first.Tag+"'",
			fields,
		)
	}
	return nil
}
