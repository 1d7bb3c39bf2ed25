package validationerrors

import (
	"context"
)

// Repository defines persistence for validation errors
type Repository interface {
	Save(ctx context.Context, e *ValidationError) error
	ListByValidation(ctx context.Context, tenant string, validationID string, limit int) ([]*ValidationError, error)
}
