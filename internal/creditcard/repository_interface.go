package creditcard

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository lookups report presence through the bool; (nil, false, nil)
// means no row matched.
type Repository interface {
	Create(ctx context.Context, card *CreditCard) (*CreditCard, error)
	GetByID(ctx context.Context, id string) (*CreditCard, bool, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]CreditCard, error)
	// UpdateAvailableLimit sets the available limit to next only if it still
	// equals expected. It reports false when another writer got there first.
	UpdateAvailableLimit(ctx context.Context, id string, expected, next decimal.Decimal) (bool, error)
}
