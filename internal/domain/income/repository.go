package income

import "context"

// Repository persists daily income records
type Repository interface {
	Create(ctx context.Context, r *Record) error
	FindAll(ctx context.Context, filter Filter) ([]Record, error)
}
