package operation

import "context"

type Repository interface {
	Create(ctx context.Context, op *Operation) (*Operation, error)
	GetByID(ctx context.Context, id string) (*Operation, bool, error)
	// ListByPeriod returns the card's operations in insertion order.
	ListByPeriod(ctx context.Context, creditCardID string, month, year int) ([]Operation, error)
	SumByPeriod(ctx context.Context, creditCardID string, month, year int) ([]PeriodTotal, error)
	HasRollback(ctx context.Context, operationID string) (bool, error)
}
