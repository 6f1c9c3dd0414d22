package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID           string          `db:"id" json:"id"`
	CreditCardID string          `db:"credit_card_id" json:"credit_card_id"`
	Month        int             `db:"month" json:"month"`
	Year         int             `db:"year" json:"year"`
	Value        decimal.Decimal `db:"value" json:"value"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	PaidAt       *time.Time      `db:"paid_at" json:"paid_at"` // nil while unpaid
}

func (i *Invoice) IsPaid() bool {
	return i.PaidAt != nil
}

// InvoiceCreationRequest selects the card and a closed period to invoice.
// Leaving Month and Year out invoices the previous month.
type InvoiceCreationRequest struct {
	CreditCardID string `json:"credit_card_id" binding:"required,uuid"`
	Month        int    `json:"month,omitempty" binding:"omitempty,min=1,max=12"`
	Year         int    `json:"year,omitempty" binding:"omitempty,min=1"`
}
