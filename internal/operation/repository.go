package operation

import (
	"context"
	"database/sql"
	"errors"

	"cardledger/internal/apperrors"
	"cardledger/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const operationColumns = `id, credit_card_id, type, value, month, year, description, reference_id, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, op *Operation) (*Operation, error) {
	query := `
		INSERT INTO credit_card_operations (id, credit_card_id, type, value, month, year, description, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + operationColumns

	var created Operation
	err := r.db.QueryRowxContext(ctx, query,
		uuid.NewString(),
		op.CreditCardID,
		op.Type,
		op.Value,
		op.Month,
		op.Year,
		op.Description,
		op.ReferenceID,
	).StructScan(&created)
	if db.IsUniqueViolation(err) && op.Type == TypeRollback && op.ReferenceID != nil {
		return nil, apperrors.BusinessRule("operation %s was already rolled back", *op.ReferenceID)
	}
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Operation, bool, error) {
	var op Operation
	err := r.db.GetContext(ctx, &op, `SELECT `+operationColumns+` FROM credit_card_operations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &op, true, nil
}

func (r *repository) ListByPeriod(ctx context.Context, creditCardID string, month, year int) ([]Operation, error) {
	ops := []Operation{}
	err := r.db.SelectContext(ctx, &ops, `
		SELECT `+operationColumns+`
		FROM credit_card_operations
		WHERE credit_card_id = $1 AND month = $2 AND year = $3
		ORDER BY seq ASC
	`, creditCardID, month, year)
	if err != nil {
		return nil, err
	}
	return ops, nil
}

func (r *repository) SumByPeriod(ctx context.Context, creditCardID string, month, year int) ([]PeriodTotal, error) {
	totals := []PeriodTotal{}
	err := r.db.SelectContext(ctx, &totals, `
		SELECT type, COALESCE(SUM(value), 0) AS total
		FROM credit_card_operations
		WHERE credit_card_id = $1 AND month = $2 AND year = $3
		GROUP BY type
	`, creditCardID, month, year)
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *repository) HasRollback(ctx context.Context, operationID string) (bool, error) {
	return db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM credit_card_operations WHERE reference_id = $1 AND type = $2)`,
		operationID, TypeRollback)
}
