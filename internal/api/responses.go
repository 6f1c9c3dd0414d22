package api

import (
	"errors"
	"net/http"
	"strconv"

	"cardledger/internal/apperrors"
	"cardledger/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

// RespondError maps the domain error kinds onto HTTP statuses. Anything that is
// not a domain error is logged and reported as 500 without leaking details.
func RespondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case apperrors.IsBusinessRule(err):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrConcurrentModification):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// PathID reads a UUID path parameter, answering 400 when it is malformed.
func PathID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return "", false
	}
	return id, true
}

// QueryPeriod reads month and year query parameters. present is false when
// neither is given.
func QueryPeriod(c *gin.Context) (month, year int, present, ok bool) {
	ms, ys := c.Query("month"), c.Query("year")
	if ms == "" && ys == "" {
		return 0, 0, false, true
	}

	month, err := strconv.Atoi(ms)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "month must be an integer"})
		return 0, 0, true, false
	}
	year, err = strconv.Atoi(ys)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "year must be an integer"})
		return 0, 0, true, false
	}
	return month, year, true, true
}
