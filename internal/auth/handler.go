package auth

import (
	"net/http"

	"cardledger/internal/api"

	"github.com/gin-gonic/gin"
)

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type Handler struct {
	accessSecret  string
	refreshSecret string
}

func NewHandler(accessSecret, refreshSecret string) *Handler {
	return &Handler{accessSecret: accessSecret, refreshSecret: refreshSecret}
}

// @Summary      Exchange a refresh token for a new access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body auth.RefreshRequest true "Refresh token"
// @Success      200 {object} auth.TokenResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !api.BindJSON(c, &req) {
		return
	}

	token, _, err := RefreshAccessToken(req.RefreshToken, h.refreshSecret, h.accessSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid or expired refresh token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(AccessTokenTTL.Seconds()),
	})
}
