package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/minaret/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// APIError is rendered as {"error": {"status", "name", "message", "details"}}.
type APIError struct {
	Code    int
	Name    string
	Message string
	Details any
}

type errorBody struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

func BadRequest(message string, details any) *APIError {
	return &APIError{Code: http.StatusBadRequest, Name: "ValidationError", Message: message, Details: details}
}

func Unauthorized(message string) *APIError {
	return &APIError{Code: http.StatusUnauthorized, Name: "UnauthorizedError", Message: message}
}

// Internal reports a processing or upstream failure; err's text goes in details.
func Internal(message string, err error) *APIError {
	e := &APIError{Code: http.StatusInternalServerError, Name: "InternalServerError", Message: message}
	if err != nil {
		e.Details = gin.H{"message": err.Error()}
	} else {
		e.Details = gin.H{}
	}
	return e
}

// WriteError aborts the request with the error envelope.
func WriteError(ctx *gin.Context, e *APIError) {
	name := e.Name
	if name == "" {
		name = http.StatusText(e.Code)
	}
	details := e.Details
	if details == nil {
		details = gin.H{}
	}
	ctx.AbortWithStatusJSON(e.Code, gin.H{"error": errorBody{
		Status:  e.Code,
		Name:    name,
		Message: e.Message,
		Details: details,
	}})
}

type HandlerFuncWithAuth func(ctx *gin.Context, admin *model.Admin) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		admin, ok := middleware.GetCurrentAdmin(ctx)
		if !ok {
			WriteError(ctx, Unauthorized("unauthorized"))
			return
		}

		result, apiErr := h(ctx, admin)
		if apiErr != nil {
			WriteError(ctx, apiErr)
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			WriteError(ctx, apiErr)
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}
