package operation

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cardledger/internal/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	cardID = "6f1c1d3e-2a8b-4c3e-9a56-0d3b1b7f4e21"
	opID   = "0b8e0d9a-1c1b-4f0e-8d3c-5e2b7a9f6c10"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Charge(ctx context.Context, req ChargeRequest) (*Operation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Operation), args.Error(1)
}

func (m *MockService) Rollback(ctx context.Context, operationID string) (*Operation, error) {
	args := m.Called(ctx, operationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Operation), args.Error(1)
}

func (m *MockService) ListByPeriod(ctx context.Context, creditCardID string, month, year int) ([]Operation, error) {
	args := m.Called(ctx, creditCardID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Operation), args.Error(1)
}

func (m *MockService) GetByID(ctx context.Context, operationID string) (*Operation, error) {
	args := m.Called(ctx, operationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Operation), args.Error(1)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.POST("/credit-cards/:id/charges", h.Charge)
	r.GET("/credit-cards/:id/operations", h.ListByPeriod)
	r.GET("/operations/:id", h.GetOperation)
	r.POST("/operations/:id/rollback", h.Rollback)
	return r
}

func TestHandler_Charge(t *testing.T) {
	svc := new(MockService)
	svc.On("Charge", mock.Anything, mock.MatchedBy(func(req ChargeRequest) bool {
		return req.CreditCardID == cardID && req.SecurityCode == "123" && req.Value.IntPart() == 20
	})).Return(&Operation{ID: opID, Type: TypeCharge}, nil)

	body := `{"value":20,"description":"coffee","security_code":"123"}`
	req := httptest.NewRequest(http.MethodPost, "/credit-cards/"+cardID+"/charges", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), opID)
	svc.AssertExpectations(t)
}

func TestHandler_Charge_MissingSecurityCode(t *testing.T) {
	svc := new(MockService)

	req := httptest.NewRequest(http.MethodPost, "/credit-cards/"+cardID+"/charges", bytes.NewBufferString(`{"value":20}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestHandler_Charge_InsufficientLimit(t *testing.T) {
	svc := new(MockService)
	svc.On("Charge", mock.Anything, mock.Anything).Return(nil, apperrors.BusinessRule("insufficient available credit limit"))

	req := httptest.NewRequest(http.MethodPost, "/credit-cards/"+cardID+"/charges",
		bytes.NewBufferString(`{"value":500,"security_code":"123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandler_Rollback(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"success", nil, http.StatusOK},
		{"operation not found", apperrors.NotFound("credit card operation", opID), http.StatusNotFound},
		{"not a charge", apperrors.BusinessRule("only CHARGE operations can be rolled back"), http.StatusUnprocessableEntity},
		{"lost race", apperrors.ErrConcurrentModification, http.StatusConflict},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.err == nil {
				svc.On("Rollback", mock.Anything, opID).Return(&Operation{ID: "r-1", Type: TypeRollback}, nil)
			} else {
				svc.On("Rollback", mock.Anything, opID).Return(nil, tt.err)
			}

			w := httptest.NewRecorder()
			setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/operations/"+opID+"/rollback", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, w.Body.String(), "boom")
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_GetOperation(t *testing.T) {
	svc := new(MockService)
	svc.On("GetByID", mock.Anything, opID).Return(&Operation{ID: opID}, nil)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/operations/"+opID, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), opID)
}

func TestHandler_ListByPeriod(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		setup  func(*MockService)
		status int
	}{
		{
			name:  "success",
			query: "?month=1&year=2000",
			setup: func(m *MockService) {
				m.On("ListByPeriod", mock.Anything, cardID, 1, 2000).Return([]Operation{{ID: opID}}, nil)
			},
			status: http.StatusOK,
		},
		{
			name:   "period missing",
			query:  "",
			setup:  func(m *MockService) {},
			status: http.StatusBadRequest,
		},
		{
			name:   "month not a number",
			query:  "?month=jan&year=2000",
			setup:  func(m *MockService) {},
			status: http.StatusBadRequest,
		},
		{
			name:  "invalid month",
			query: "?month=13&year=2000",
			setup: func(m *MockService) {
				m.On("ListByPeriod", mock.Anything, cardID, 13, 2000).Return(nil, apperrors.BusinessRule("invalid month 13"))
			},
			status: http.StatusUnprocessableEntity,
		},
		{
			name:  "card not found",
			query: "?month=12&year=2000",
			setup: func(m *MockService) {
				m.On("ListByPeriod", mock.Anything, cardID, 12, 2000).Return(nil, apperrors.NotFound("credit card", cardID))
			},
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setup(svc)

			w := httptest.NewRecorder()
			setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/credit-cards/"+cardID+"/operations"+tt.query, nil))

			assert.Equal(t, tt.status, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
