package invoice

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, inv *Invoice) (*Invoice, error)
	GetByID(ctx context.Context, id string) (*Invoice, bool, error)
	GetByPeriod(ctx context.Context, creditCardID string, month, year int) (*Invoice, bool, error)
	ListByCard(ctx context.Context, creditCardID string) ([]Invoice, error)
	// MarkPaid sets paid_at only if it is still null and reports whether a
	// row changed.
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error)
}
