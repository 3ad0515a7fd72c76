package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loadlane/service-logistics/internal/pkg/errs"
)

// envelope is the uniform response body shape.
type envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
	Meta  *pageMeta  `json:"meta,omitempty"`
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

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, envelope{Data: data})
}

// Paginated writes a 200 response with items and pagination metadata.
func Paginated(c *gin.Context, items any, total int64, page, limit int) {
	c.JSON(http.StatusOK, envelope{
		Data: items,
		Meta: &pageMeta{Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 with an INVALID_INPUT code.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{
		Error: &errorBody{Code: errs.CodeInvalidInput, Message: message},
	})
}

// statusByCode maps every taxonomy code to an HTTP status. Nothing falls back
// to a generic message; the code travels to the client unchanged.
var statusByCode = map[string]int{
	errs.CodeOriginNotFound:         http.StatusBadRequest,
	errs.CodeDestinationNotFound:    http.StatusBadRequest,
	errs.CodeRouteNotFound:          http.StatusBadRequest,
	errs.CodeProviderUnavailable:    http.StatusBadGateway,
	errs.CodeNotConfigured:          http.StatusServiceUnavailable,
	errs.CodeUnknownTruckType:       http.StatusBadRequest,
	errs.CodeInvalidTransition:      http.StatusConflict,
	errs.CodeInvalidInput:           http.StatusBadRequest,
	errs.CodeConcurrentModification: http.StatusConflict,
	errs.CodeNotFound:               http.StatusNotFound,
	errs.CodeValidation:             http.StatusBadRequest,
	errs.CodeForbidden:              http.StatusForbidden,
	errs.CodeUnauthorized:           http.StatusUnauthorized,
}

// Error writes the response for an application error, preserving its code.
func Error(c *gin.Context, err error) {
	code := errs.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	message := err.Error()
	if code == errs.CodeInternal {
		message = "internal server error"
	}
	c.JSON(status, envelope{Error: &errorBody{Code: code, Message: message}})
}
