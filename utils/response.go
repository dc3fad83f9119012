package utils

import (
	"errors"

	"localstay-server/services"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// Error payloads always carry a "detail" field; the web client renders it
// verbatim.

func CreateError(statusCode int, code string, detail string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{"error": code, "detail": detail})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "server_error", "Internal server error", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "not_found", "Not found", ctx)
}

// HandleValidationErrors renders validator.v10 field errors from
// ctx.ReadJSON as a 400 with per-field details.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]iris.Map, 0, len(errs))
		for _, fieldErr := range errs {
			fields = append(fields, iris.Map{
				"field": fieldErr.Field(),
				"tag":   fieldErr.Tag(),
				"value": fieldErr.Param(),
			})
		}
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{
			"error":  "validation_error",
			"detail": "Invalid request body",
			"fields": fields,
		})
		return
	}
	CreateError(iris.StatusBadRequest, "bad_request", "Malformed request body", ctx)
}

// HandleServiceError maps the engine error taxonomy onto HTTP statuses.
// Validation and permission failures surface verbatim and are never
// retried; Unavailable tells the caller a stalled transaction may be
// retried.
func HandleServiceError(err error, ctx iris.Context) {
	detail := services.Detail(err)
	switch {
	case errors.Is(err, services.ErrValidation):
		CreateError(iris.StatusBadRequest, "validation_error", detail, ctx)
	case errors.Is(err, services.ErrPermissionDenied):
		CreateError(iris.StatusForbidden, "permission_denied", detail, ctx)
	case errors.Is(err, services.ErrNotFound):
		CreateError(iris.StatusNotFound, "not_found", detail, ctx)
	case errors.Is(err, services.ErrConflict):
		CreateError(iris.StatusConflict, "conflict", detail, ctx)
	case errors.Is(err, services.ErrInvalidState):
		CreateError(iris.StatusConflict, "invalid_state", detail, ctx)
	case errors.Is(err, services.ErrUnavailable):
		CreateError(iris.StatusServiceUnavailable, "unavailable", detail, ctx)
	default:
		CreateInternalServerError(ctx)
	}
}
