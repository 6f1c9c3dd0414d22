package creditcard

import (
	"net/http"
	"strconv"

	"cardledger/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Create a credit card
// @Description  Admin-only: issue a new credit card. The available limit starts at the credit limit.
// @Tags         admin,credit-cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body creditcard.CreateCreditCardRequest true "Credit card payload"
// @Success      201 {object} creditcard.CreditCard
// @Failure      400 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/admin/credit-cards [post]
func (h *Handler) CreateCreditCard(c *gin.Context) {
	var req CreateCreditCardRequest
	if !api.BindJSON(c, &req) {
		return
	}

	card, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, card)
}

// @Summary      Get a credit card
// @Tags         credit-cards
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Credit card ID"
// @Success      200 {object} creditcard.CreditCard
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/credit-cards/{id} [get]
func (h *Handler) GetCreditCard(c *gin.Context) {
	id, ok := api.PathID(c, "id")
	if !ok {
		return
	}

	card, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// @Summary      List credit cards
// @Tags         credit-cards
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size" default(50)
// @Param        offset query int false "Offset"    default(0)
// @Success      200 {array} creditcard.CreditCard
// @Router       /api/credit-cards [get]
func (h *Handler) ListCreditCards(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	cards, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cards)
}
