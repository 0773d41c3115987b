package api

import (
	"errors"
	"log/slog"

	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error      string           `json:"error"`
	EntryCount *int             `json:"entry_count,omitempty"`
	Debits     *decimal.Decimal `json:"debits,omitempty"`
	Credits    *decimal.Decimal `json:"credits,omitempty"`
	Difference *decimal.Decimal `json:"difference,omitempty"`
}

// statusFor maps the ledger's error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, common.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, common.ErrImbalanced):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrEvidenceUnavailable):
		return fiber.StatusNotFound
	case errors.Is(err, common.ErrConflict), errors.Is(err, common.ErrDuplicateEntry),
		errors.Is(err, common.ErrAccountInUse):
		return fiber.StatusConflict
	case errors.Is(err, common.ErrInvalidAccount), storage.IsValidationError(err):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func handleError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	body := ErrorResponse{Error: err.Error()}

	var imbalance *common.ImbalanceError
	if errors.As(err, &imbalance) {
		diff := imbalance.Difference()
		body.Debits, body.Credits, body.Difference = &imbalance.Debits, &imbalance.Credits, &diff
	}

	var inUse *common.AccountInUseError
	if errors.As(err, &inUse) {
		body.EntryCount = &inUse.EntryCount
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err)
		body.Error = "internal error"
	}

	return c.Status(status).JSON(body)
}
