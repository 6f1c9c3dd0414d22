package invoice

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cardledger/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const invoiceColumns = `id, credit_card_id, month, year, value, created_at, paid_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, inv *Invoice) (*Invoice, error) {
	query := `
		INSERT INTO credit_card_invoices (id, credit_card_id, month, year, value)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + invoiceColumns

	var created Invoice
	err := r.db.QueryRowxContext(ctx, query,
		uuid.NewString(),
		inv.CreditCardID,
		inv.Month,
		inv.Year,
		inv.Value,
	).StructScan(&created)
	if db.IsUniqueViolation(err) {
		return nil, periodInvoicedError(inv.CreditCardID, inv.Month, inv.Year)
	}
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Invoice, bool, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM credit_card_invoices WHERE id = $1`, id)
}

func (r *repository) GetByPeriod(ctx context.Context, creditCardID string, month, year int) (*Invoice, bool, error) {
	return r.getOne(ctx, `
		SELECT `+invoiceColumns+`
		FROM credit_card_invoices
		WHERE credit_card_id = $1 AND month = $2 AND year = $3
	`, creditCardID, month, year)
}

func (r *repository) getOne(ctx context.Context, query string, args ...interface{}) (*Invoice, bool, error) {
	var inv Invoice
	err := r.db.GetContext(ctx, &inv, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &inv, true, nil
}

func (r *repository) ListByCard(ctx context.Context, creditCardID string) ([]Invoice, error) {
	invoices := []Invoice{}
	err := r.db.SelectContext(ctx, &invoices, `
		SELECT `+invoiceColumns+`
		FROM credit_card_invoices
		WHERE credit_card_id = $1
		ORDER BY year DESC, month DESC
	`, creditCardID)
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repository) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE credit_card_invoices SET paid_at = $1 WHERE id = $2 AND paid_at IS NULL`,
		paidAt, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}
