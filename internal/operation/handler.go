package operation

import (
	"net/http"

	"cardledger/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Charge a credit card
// @Tags         operations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                   true "Credit card ID"
// @Param        request body operation.ChargeRequest  true "Charge payload"
// @Success      201 {object} operation.Operation
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /api/credit-cards/{id}/charges [post]
func (h *Handler) Charge(c *gin.Context) {
	cardID, ok := api.PathID(c, "id")
	if !ok {
		return
	}

	var req ChargeRequest
	if !api.BindJSON(c, &req) {
		return
	}
	req.CreditCardID = cardID

	op, err := h.service.Charge(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, op)
}

// @Summary      Roll back a charge
// @Description  Restores the card's available limit by the charge value and records a ROLLBACK operation.
// @Tags         operations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Operation ID"
// @Success      200 {object} operation.Operation
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /api/operations/{id}/rollback [post]
func (h *Handler) Rollback(c *gin.Context) {
	id, ok := api.PathID(c, "id")
	if !ok {
		return
	}

	op, err := h.service.Rollback(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, op)
}

// @Summary      Get an operation
// @Tags         operations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Operation ID"
// @Success      200 {object} operation.Operation
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/operations/{id} [get]
func (h *Handler) GetOperation(c *gin.Context) {
	id, ok := api.PathID(c, "id")
	if !ok {
		return
	}

	op, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, op)
}

// @Summary      List operations of a period
// @Tags         operations
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true "Credit card ID"
// @Param        month query int    true "Month (1-12)"
// @Param        year  query int    true "Year"
// @Success      200 {array} operation.Operation
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /api/credit-cards/{id}/operations [get]
func (h *Handler) ListByPeriod(c *gin.Context) {
	cardID, ok := api.PathID(c, "id")
	if !ok {
		return
	}

	month, year, present, ok := api.QueryPeriod(c)
	if !ok {
		return
	}
	if !present {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "month and year query params are required"})
		return
	}

	ops, err := h.service.ListByPeriod(c.Request.Context(), cardID, month, year)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ops)
}
