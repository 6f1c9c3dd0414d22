package operation

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeCharge         Type = "CHARGE"
	TypeInvoicePayment Type = "INVOICE_PAYMENT"
	TypeRollback       Type = "ROLLBACK"
)

type Operation struct {
	ID           string          `db:"id" json:"id"`
	CreditCardID string          `db:"credit_card_id" json:"credit_card_id"`
	Type         Type            `db:"type" json:"type"`
	Value        decimal.Decimal `db:"value" json:"value"`
	Month        int             `db:"month" json:"month"`
	Year         int             `db:"year" json:"year"`
	Description  string          `db:"description" json:"description"`
	ReferenceID  *string         `db:"reference_id" json:"reference_id,omitempty"` // operation a rollback reverses
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// PeriodTotal is the summed value of one operation type within a period.
type PeriodTotal struct {
	Type  Type            `db:"type"`
	Total decimal.Decimal `db:"total"`
}

type ChargeRequest struct {
	CreditCardID string          `json:"-"`
	Value        decimal.Decimal `json:"value"`
	Description  string          `json:"description" binding:"max=255"`
	SecurityCode string          `json:"security_code" binding:"required,numeric,min=3,max=4"`
}
