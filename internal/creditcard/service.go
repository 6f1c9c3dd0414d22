package creditcard

import (
	"context"

	"cardledger/internal/apperrors"
	"cardledger/internal/metrics"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const entityName = "credit card"

type Service interface {
	Create(ctx context.Context, req CreateCreditCardRequest) (*CreditCard, error)
	GetByID(ctx context.Context, id string) (*CreditCard, error)
	List(ctx context.Context, limit, offset int) ([]CreditCard, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateCreditCardRequest) (*CreditCard, error) {
	if err := ValidateAmount("credit limit", req.CreditLimit); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.SecurityCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	card, err := s.repo.Create(ctx, &CreditCard{
		Owner:                req.Owner,
		Number:               req.Number,
		SecurityCode:         string(hash),
		PrintedName:          req.PrintedName,
		CreditLimit:          req.CreditLimit,
		AvailableCreditLimit: req.CreditLimit,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordCreditCardCreated()
	return card, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*CreditCard, error) {
	return Load(ctx, s.repo, id)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]CreditCard, error) {
	return s.repo.List(ctx, limit, offset)
}

// ValidateAmount requires a positive value in whole cents. Money columns are
// NUMERIC(15,2) and would round anything finer.
func ValidateAmount(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return apperrors.BusinessRule("%s must be positive", field)
	}
	if !v.Equal(v.Round(2)) {
		return apperrors.BusinessRule("%s must not have more than two decimal places", field)
	}
	return nil
}

// CheckSecurityCode compares a plain security code against the stored hash.
func CheckSecurityCode(card *CreditCard, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(card.SecurityCode), []byte(code)) == nil
}

// Load fetches a card and converts absence into the not-found error kind.
// Other packages use it at their own service edge.
func Load(ctx context.Context, repo Repository, id string) (*CreditCard, error) {
	card, found, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NotFound(entityName, id)
	}
	return card, nil
}

// SetAvailableLimit persists next as the card's available limit using a
// compare-and-set on the value that was read, and updates card in place.
func SetAvailableLimit(ctx context.Context, repo Repository, card *CreditCard, next decimal.Decimal) error {
	ok, err := repo.UpdateAvailableLimit(ctx, card.ID, card.AvailableCreditLimit, next)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrConcurrentModification
	}
	card.AvailableCreditLimit = next
	return nil
}
