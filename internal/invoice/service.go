package invoice

import (
	"context"
	"time"

	"cardledger/internal/apperrors"
	"cardledger/internal/creditcard"
	"cardledger/internal/logger"
	"cardledger/internal/metrics"
	"cardledger/internal/notify"
	"cardledger/internal/operation"

	"github.com/shopspring/decimal"
)

const entityName = "credit card invoice"

type Service interface {
	GetByID(ctx context.Context, id string) (*Invoice, error)
	GetByPeriod(ctx context.Context, creditCardID string, month, year int) (*Invoice, error)
	GenerateInvoice(ctx context.Context, req InvoiceCreationRequest) (*Invoice, error)
	PayInvoice(ctx context.Context, id string) (*Invoice, error)
	ListByCard(ctx context.Context, creditCardID string) ([]Invoice, error)
}

// Notifier tells the card owner about a generated invoice.
type Notifier interface {
	SendInvoiceNotice(ctx context.Context, to string, n notify.InvoiceNotice) error
}

type service struct {
	cardRepo creditcard.Repository
	opRepo   operation.Repository
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

func NewService(cardRepo creditcard.Repository, opRepo operation.Repository, repo Repository, notifier Notifier) Service {
	return &service{
		cardRepo: cardRepo,
		opRepo:   opRepo,
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) GetByID(ctx context.Context, id string) (*Invoice, error) {
	inv, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NotFound(entityName, id)
	}
	return inv, nil
}

func (s *service) GetByPeriod(ctx context.Context, creditCardID string, month, year int) (*Invoice, error) {
	if err := apperrors.ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	inv, found, err := s.repo.GetByPeriod(ctx, creditCardID, month, year)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NotFound(entityName, creditCardID)
	}
	return inv, nil
}

// GenerateInvoice bills a closed period of a card, the previous month unless
// the request names one. Operations are always booked into the current month,
// so a closed period cannot change after it is invoiced. The value is the sum
// of its charges minus the sum of its rollbacks, never below zero.
func (s *service) GenerateInvoice(ctx context.Context, req InvoiceCreationRequest) (*Invoice, error) {
	month, year, err := s.billingPeriod(req)
	if err != nil {
		return nil, err
	}

	card, err := creditcard.Load(ctx, s.cardRepo, req.CreditCardID)
	if err != nil {
		return nil, err
	}

	_, exists, err := s.repo.GetByPeriod(ctx, card.ID, month, year)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, periodInvoicedError(card.ID, month, year)
	}

	totals, err := s.opRepo.SumByPeriod(ctx, card.ID, month, year)
	if err != nil {
		return nil, err
	}

	inv, err := s.repo.Create(ctx, &Invoice{
		CreditCardID: card.ID,
		Month:        month,
		Year:         year,
		Value:        periodValue(totals),
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordInvoiceGenerated()

	notice := notify.InvoiceNotice{
		InvoiceID:   inv.ID,
		PrintedName: card.PrintedName,
		CardNumber:  creditcard.MaskNumber(card.Number),
		Month:       inv.Month,
		Year:        inv.Year,
		Value:       inv.Value.StringFixed(2),
	}
	if err := s.notifier.SendInvoiceNotice(ctx, card.Owner, notice); err != nil {
		logger.Warn("invoice notification not queued", "invoice_id", inv.ID, "error", err)
	}

	return inv, nil
}

func (s *service) billingPeriod(req InvoiceCreationRequest) (month, year int, err error) {
	current := s.now()
	if req.Month == 0 && req.Year == 0 {
		prev := time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, current.Location()).AddDate(0, -1, 0)
		return int(prev.Month()), prev.Year(), nil
	}

	if err := apperrors.ValidatePeriod(req.Month, req.Year); err != nil {
		return 0, 0, err
	}
	if req.Year*12+req.Month >= current.Year()*12+int(current.Month()) {
		return 0, 0, apperrors.BusinessRule("period %02d/%d is still open", req.Month, req.Year)
	}
	return req.Month, req.Year, nil
}

func periodInvoicedError(creditCardID string, month, year int) error {
	return apperrors.BusinessRule("an invoice for %02d/%d already exists for credit card %s", month, year, creditCardID)
}

func periodValue(totals []operation.PeriodTotal) decimal.Decimal {
	value := decimal.Zero
	for _, t := range totals {
		switch t.Type {
		case operation.TypeCharge:
			value = value.Add(t.Total)
		case operation.TypeRollback:
			value = value.Sub(t.Total)
		}
	}
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}

// PayInvoice marks the invoice paid and gives its value back to the card's
// available limit.
func (s *service) PayInvoice(ctx context.Context, id string) (*Invoice, error) {
	inv, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.IsPaid() {
		return nil, apperrors.BusinessRule("invoice %s is already paid", inv.ID)
	}

	card, err := creditcard.Load(ctx, s.cardRepo, inv.CreditCardID)
	if err != nil {
		return nil, err
	}

	paidAt := s.now()
	marked, err := s.repo.MarkPaid(ctx, inv.ID, paidAt)
	if err != nil {
		return nil, err
	}
	if !marked {
		return nil, apperrors.BusinessRule("invoice %s is already paid", inv.ID)
	}
	inv.PaidAt = &paidAt

	if err := creditcard.SetAvailableLimit(ctx, s.cardRepo, card, card.Restored(inv.Value)); err != nil {
		logger.WithError(err).Error("invoice marked paid but card limit not restored",
			"invoice_id", inv.ID, "credit_card_id", card.ID)
		return nil, err
	}

	_, err = s.opRepo.Create(ctx, &operation.Operation{
		CreditCardID: card.ID,
		Type:         operation.TypeInvoicePayment,
		Value:        inv.Value,
		Month:        int(paidAt.Month()),
		Year:         paidAt.Year(),
		Description:  "Payment of invoice " + inv.ID,
		ReferenceID:  &inv.ID,
	})
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"invoice_id":     inv.ID,
			"credit_card_id": card.ID,
			"value":          inv.Value.String(),
		}).Error("invoice paid but payment operation was not recorded", "error", err)
		return nil, err
	}

	metrics.RecordInvoicePaid()
	metrics.RecordOperation(string(operation.TypeInvoicePayment), inv.Value.InexactFloat64())
	return inv, nil
}

func (s *service) ListByCard(ctx context.Context, creditCardID string) ([]Invoice, error) {
	exists, err := s.cardRepo.Exists(ctx, creditCardID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("credit card", creditCardID)
	}
	return s.repo.ListByCard(ctx, creditCardID)
}
