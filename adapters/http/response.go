package qrhttp

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	errorslib "github.com/goliatone/go-errors"

	"github.com/goliatone/go-qrexport/qrcode"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type optionsResponse struct {
	qrcode.Options
	DefaultStyle stylePayload `json:"default_style"`
}

type healthResponse struct {
	Status  string          `json:"status"`
	Ready   bool            `json:"ready"`
	Formats []qrcode.Format `json:"formats"`
}

// WriteError writes err as a JSON error body.
func WriteError(c *fiber.Ctx, err error) error {
	if err == nil {
		return c.SendStatus(http.StatusNoContent)
	}
	ge := qrcode.AsGoError(err)
	return c.Status(statusForError(ge)).JSON(errorResponse{
		Error: errorBody{Message: ge.Message, Code: ge.TextCode},
	})
}

// ErrorHandler is a fiber.ErrorHandler rendering errors as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errorResponse{
			Error: errorBody{Message: fe.Message, Code: http.StatusText(fe.Code)},
		})
	}
	return WriteError(c, err)
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	switch err.TextCode {
	case "not_implemented":
		return http.StatusNotImplemented
	case "not_ready":
		return http.StatusServiceUnavailable
	case "timeout":
		return http.StatusGatewayTimeout
	case "canceled":
		return http.StatusConflict
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryOperation:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
