package controller

import (
	"context"
	"errors"

	"ppods-be/internal/pkg/serverutils"
	"ppods-be/internal/service"
	"ppods-be/pkg/appstate"
	"ppods-be/pkg/voice"

	"github.com/gofiber/fiber/v2"
)

// writeError maps service sentinels to status codes and renders the envelope.
func writeError(ctx *fiber.Ctx, err error) error {
	var keysErr *service.UnknownSettingsKeysError
	if errors.As(err, &keysErr) {
		return ctx.Status(fiber.StatusBadRequest).
			JSON(serverutils.ErrorResponseWithData(fiber.StatusBadRequest, keysErr.Error(), fiber.Map{"unknown_keys": keysErr.Keys}))
	}

	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, appstate.ErrInvalidTheme),
		errors.Is(err, appstate.ErrInvalidMessage),
		errors.Is(err, service.ErrBlankMessage),
		errors.Is(err, voice.ErrInvalidKind):
		code = fiber.StatusBadRequest
	case errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, voice.ErrSessionNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, voice.ErrWrongKind):
		code = fiber.StatusConflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		code = fiber.StatusRequestTimeout
	}
	return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
}

func parseBody(ctx *fiber.Ctx, out any) error {
	if err := ctx.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}
