package operation

import (
	"context"
	"time"

	"cardledger/internal/apperrors"
	"cardledger/internal/creditcard"
	"cardledger/internal/logger"
	"cardledger/internal/metrics"
)

type Service interface {
	Charge(ctx context.Context, req ChargeRequest) (*Operation, error)
	Rollback(ctx context.Context, operationID string) (*Operation, error)
	ListByPeriod(ctx context.Context, creditCardID string, month, year int) ([]Operation, error)
	GetByID(ctx context.Context, operationID string) (*Operation, error)
}

type service struct {
	cardRepo creditcard.Repository
	repo     Repository
	now      func() time.Time
}

func NewService(cardRepo creditcard.Repository, repo Repository) Service {
	return &service{
		cardRepo: cardRepo,
		repo:     repo,
		now:      time.Now,
	}
}

func (s *service) Charge(ctx context.Context, req ChargeRequest) (*Operation, error) {
	if err := creditcard.ValidateAmount("charge value", req.Value); err != nil {
		return nil, err
	}

	card, err := creditcard.Load(ctx, s.cardRepo, req.CreditCardID)
	if err != nil {
		return nil, err
	}

	if !creditcard.CheckSecurityCode(card, req.SecurityCode) {
		return nil, apperrors.BusinessRule("invalid security code")
	}
	if !card.CanCharge(req.Value) {
		return nil, apperrors.BusinessRule("insufficient available credit limit: %s available, %s requested",
			card.AvailableCreditLimit.StringFixed(2), req.Value.StringFixed(2))
	}

	if err := creditcard.SetAvailableLimit(ctx, s.cardRepo, card, card.AvailableCreditLimit.Sub(req.Value)); err != nil {
		return nil, err
	}

	now := s.now()
	op, err := s.repo.Create(ctx, &Operation{
		CreditCardID: card.ID,
		Type:         TypeCharge,
		Value:        req.Value,
		Month:        int(now.Month()),
		Year:         now.Year(),
		Description:  req.Description,
	})
	if err != nil {
		logger.WithError(err).Error("charge applied to card but operation was not recorded",
			"credit_card_id", card.ID, "value", req.Value.String())
		return nil, err
	}

	metrics.RecordOperation(string(TypeCharge), req.Value.InexactFloat64())
	return op, nil
}

// Rollback reverses a charge by giving its value back to the card's available
// limit and recording a ROLLBACK operation. The card write is a
// compare-and-set, so a concurrent change to the same card fails with
// ErrConcurrentModification rather than being overwritten. If another rollback
// of the same charge is recorded first, the credit is taken back.
func (s *service) Rollback(ctx context.Context, operationID string) (*Operation, error) {
	op, err := s.GetByID(ctx, operationID)
	if err != nil {
		return nil, err
	}

	if op.Type != TypeCharge {
		return nil, apperrors.BusinessRule("operation %s is of type %s: only %s operations can be rolled back",
			op.ID, op.Type, TypeCharge)
	}

	rolledBack, err := s.repo.HasRollback(ctx, op.ID)
	if err != nil {
		return nil, err
	}
	if rolledBack {
		return nil, apperrors.BusinessRule("operation %s was already rolled back", op.ID)
	}

	card, err := creditcard.Load(ctx, s.cardRepo, op.CreditCardID)
	if err != nil {
		return nil, err
	}

	before := card.AvailableCreditLimit
	if err := creditcard.SetAvailableLimit(ctx, s.cardRepo, card, card.Restored(op.Value)); err != nil {
		return nil, err
	}

	now := s.now()
	reversal, err := s.repo.Create(ctx, &Operation{
		CreditCardID: card.ID,
		Type:         TypeRollback,
		Value:        op.Value,
		Month:        int(now.Month()),
		Year:         now.Year(),
		Description:  "Rollback of operation " + op.ID,
		ReferenceID:  &op.ID,
	})
	if apperrors.IsBusinessRule(err) {
		// A concurrent rollback of the same charge recorded first.
		if revertErr := creditcard.SetAvailableLimit(ctx, s.cardRepo, card, before); revertErr != nil {
			logger.WithError(revertErr).Error("duplicate rollback credited the card and could not be reverted",
				"operation_id", op.ID, "credit_card_id", card.ID)
		}
		return nil, err
	}
	if err != nil {
		logger.WithError(err).Error("limit restored but rollback was not recorded",
			"operation_id", op.ID, "credit_card_id", card.ID)
		return nil, err
	}

	logger.Info("operation rolled back",
		"operation_id", op.ID,
		"credit_card_id", card.ID,
		"available_credit_limit", card.AvailableCreditLimit.String(),
	)
	metrics.RecordOperation(string(TypeRollback), op.Value.InexactFloat64())
	return reversal, nil
}

func (s *service) ListByPeriod(ctx context.Context, creditCardID string, month, year int) ([]Operation, error) {
	if err := apperrors.ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	exists, err := s.cardRepo.Exists(ctx, creditCardID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("credit card", creditCardID)
	}

	return s.repo.ListByPeriod(ctx, creditCardID, month, year)
}

func (s *service) GetByID(ctx context.Context, operationID string) (*Operation, error) {
	op, found, err := s.repo.GetByID(ctx, operationID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NotFound("credit card operation", operationID)
	}
	return op, nil
}
