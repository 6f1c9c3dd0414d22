package creditcard

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CreditCard struct {
	ID                   string          `db:"id" json:"id"`
	Owner                string          `db:"owner" json:"owner"`
	Number               string          `db:"number" json:"number"`
	SecurityCode         string          `db:"security_code" json:"-"` // bcrypt hash
	PrintedName          string          `db:"printed_name" json:"printed_name"`
	CreditLimit          decimal.Decimal `db:"credit_limit" json:"credit_limit"`
	AvailableCreditLimit decimal.Decimal `db:"available_credit_limit" json:"available_credit_limit"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}

// MarshalJSON masks the card number down to its last four digits.
func (c CreditCard) MarshalJSON() ([]byte, error) {
	type alias CreditCard
	out := alias(c)
	out.Number = MaskNumber(c.Number)
	return json.Marshal(out)
}

func MaskNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}

// Restored returns the available limit after giving value back, capped at
// the credit limit.
func (c *CreditCard) Restored(value decimal.Decimal) decimal.Decimal {
	next := c.AvailableCreditLimit.Add(value)
	if next.GreaterThan(c.CreditLimit) {
		return c.CreditLimit
	}
	return next
}

// CanCharge reports whether value fits in the available limit.
func (c *CreditCard) CanCharge(value decimal.Decimal) bool {
	return value.LessThanOrEqual(c.AvailableCreditLimit)
}

type CreateCreditCardRequest struct {
	Owner        string          `json:"owner" binding:"required,email"`
	Number       string          `json:"number" binding:"required,numeric,len=16"`
	SecurityCode string          `json:"security_code" binding:"required,numeric,min=3,max=4"`
	PrintedName  string          `json:"printed_name" binding:"required,max=26"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
}
