package invoice

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

// @Summary      Invoice a closed period, by default the previous month
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body invoice.InvoiceCreationRequest true "Card to invoice"
// @Success      201 {object} invoice.Invoice
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /api/admin/invoices [post]
func (h *Handler) GenerateInvoice(c *gin.Context) {
	var req InvoiceCreationRequest
	if !api.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.GenerateInvoice(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Invoice ID"
// @Success      200 {object} invoice.Invoice
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := api.PathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// @Summary      Get card invoices
// @Description  Returns the invoice of one period when month and year are given, otherwise every invoice of the card.
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "Credit card ID"
// @Param        month query int    false "Month (1-12)"
// @Param        year  query int    false "Year"
// @Success      200 {object} invoice.Invoice
// @Failure      404 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /api/credit-cards/{id}/invoices [get]
func (h *Handler) GetCardInvoices(c *gin.Context) {
	cardID, ok := api.PathID(c, "id")
	if !ok {
		return
	}

	month, year, present, ok := api.QueryPeriod(c)
	if !ok {
		return
	}

	if !present {
		invoices, err := h.service.ListByCard(c.Request.Context(), cardID)
		if err != nil {
			api.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, invoices)
		return
	}

	inv, err := h.service.GetByPeriod(c.Request.Context(), cardID, month, year)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// @Summary      Pay an invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Invoice ID"
// @Success      200 {object} invoice.Invoice
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /api/invoices/{id}/pay [post]
func (h *Handler) PayInvoice(c *gin.Context) {
	id, ok := api.PathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.service.PayInvoice(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}
