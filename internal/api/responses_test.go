package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cardledger/internal/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.NotFound("invoice", "x"), http.StatusNotFound},
		{"business rule", apperrors.BusinessRule("invalid month"), http.StatusUnprocessableEntity},
		{"conflict", apperrors.ErrConcurrentModification, http.StatusConflict},
		{"other", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRespondError_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondError(c, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password")
}

func TestQueryPeriod(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query       string
		month, year int
		present, ok bool
	}{
		{"", 0, 0, false, true},
		{"month=3&year=2024", 3, 2024, true, true},
		{"month=x&year=2024", 0, 0, true, false},
		{"month=3", 0, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)

			month, year, present, ok := QueryPeriod(c)

			assert.Equal(t, tt.present, present)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.month, month)
				assert.Equal(t, tt.year, year)
			} else {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}
