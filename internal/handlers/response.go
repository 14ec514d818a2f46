package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/croptrack/croptrack/internal/services"
	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ErrorResponse documents the failure envelope for swagger.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"lot not found"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

func respondPaginated(c *gin.Context, data interface{}, page, limit int, total int64) {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{Success: false, Message: message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Unexpected errors are logged and answered with a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrSpeciesNotFound),
		errors.Is(err, services.ErrLotNotFound),
		errors.Is(err, services.ErrUserNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateSpecies),
		errors.Is(err, services.ErrDuplicateLotCode),
		errors.Is(err, services.ErrDuplicateUsername):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrWrongPassword),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrExpiredToken):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrAlreadyHarvested):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
