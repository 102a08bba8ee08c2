package serverutils

import (
	"errors"
	"log"

	"ai-docsearch-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps pipeline errors to the uniform {error} payload.
// InvalidInput is a bad request, UpstreamUnavailable a 503; every other kind
// (dimension mismatch, content policy, unclassified) is an internal error.
// Wrapped upstream internals are logged, never returned to the caller.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		status := statusForKind(apperr.KindOf(err))
		if status >= fiber.StatusInternalServerError {
			log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
		}

		return ctx.Status(status).JSON(fiber.Map{"error": apperr.PublicMessage(err)})
	}
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput:
		return fiber.StatusBadRequest
	case apperr.KindUpstreamUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
