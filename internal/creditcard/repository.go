package creditcard

import (
	"context"
	"database/sql"
	"errors"

	"cardledger/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const cardColumns = `id, owner, number, security_code, printed_name, credit_limit, available_credit_limit, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, card *CreditCard) (*CreditCard, error) {
	query := `
		INSERT INTO credit_cards (id, owner, number, security_code, printed_name, credit_limit, available_credit_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + cardColumns

	var created CreditCard
	err := r.db.QueryRowxContext(ctx, query,
		uuid.NewString(),
		card.Owner,
		card.Number,
		card.SecurityCode,
		card.PrintedName,
		card.CreditLimit,
		card.AvailableCreditLimit,
	).StructScan(&created)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*CreditCard, bool, error) {
	var card CreditCard
	err := r.db.GetContext(ctx, &card, `SELECT `+cardColumns+` FROM credit_cards WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &card, true, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM credit_cards WHERE id = $1)`, id)
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]CreditCard, error) {
	if limit <= 0 {
		limit = 50
	}

	cards := []CreditCard{}
	err := r.db.SelectContext(ctx, &cards, `
		SELECT `+cardColumns+`
		FROM credit_cards
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}

	return cards, nil
}

func (r *repository) UpdateAvailableLimit(ctx context.Context, id string, expected, next decimal.Decimal) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE credit_cards
		SET available_credit_limit = $1, updated_at = NOW()
		WHERE id = $2 AND available_credit_limit = $3 AND $1 <= credit_limit
	`, next, id, expected)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
