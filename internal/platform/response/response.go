package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

// envelope is the JSON shape of every response body.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
	Meta    *pageMeta   `json:"meta,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type pageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Success writes a 200 with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// Paginated writes a 200 with items and paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    items,
		Meta:    &pageMeta{Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 with a validation error body.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{
		Success: false,
		Error:   &errorBody{Code: string(domain.ErrCodeValidation), Message: message},
	})
}

// Error maps a service error to its HTTP status. Non-domain errors are
// reported as opaque 500s; the logging middleware carries the detail.
func Error(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, envelope{
			Success: false,
			Error:   &errorBody{Code: "INTERNAL", Message: "internal server error"},
		})
		return
	}

	c.JSON(statusForCode(de.Code), envelope{
		Success: false,
		Error:   &errorBody{Code: string(de.Code), Message: de.Message},
	})
}

func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeValidation:
		return http.StatusBadRequest
	case domain.ErrCodeForbidden:
		return http.StatusForbidden
	case domain.ErrCodeInvalidState,
		domain.ErrCodeDuplicatePending,
		domain.ErrCodeAlreadyConnected,
		domain.ErrCodeDateConflict,
		domain.ErrCodeSelfBooking,
		domain.ErrCodeSelfConnection,
		domain.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
