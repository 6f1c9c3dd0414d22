package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Error   string            `json:"error" example:"validation failed"`
	Details []ValidationError `json:"details"`
}

// BindJSON decodes and validates the request body into dst. On failure it has
// already answered 400 and the caller must return.
func BindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:   "validation failed",
			Details: ValidationErrors(verrs),
		})
		return false
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
	return false
}

func ValidationErrors(verrs validator.ValidationErrors) []ValidationError {
	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: errorMessage(fe),
		})
	}
	return out
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "numeric":
		return fe.Field() + " must contain digits only"
	case "uuid":
		return fe.Field() + " must be a valid UUID"
	case "len":
		return fe.Field() + " must be exactly " + fe.Param() + " characters"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}
