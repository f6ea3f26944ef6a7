package controller

import (
	"ppods-be/internal/dto"
	"ppods-be/internal/pkg/serverutils"
	"ppods-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVoiceController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	ListSessions(ctx *fiber.Ctx) error
	StartSession(ctx *fiber.Ctx) error
	Transcript(ctx *fiber.Ctx) error
	StopSession(ctx *fiber.Ctx) error
}

type voiceController struct {
	service service.IVoiceService
}

func NewVoiceController(service service.IVoiceService) IVoiceController {
	return &voiceController{service: service}
}

func (c *voiceController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/voice", auth)
	h.Get("/sessions", c.ListSessions)
	h.Post("/sessions", c.StartSession)
	h.Post("/sessions/:id/transcript", c.Transcript)
	h.Delete("/sessions/:id", c.StopSession)
}

func (c *voiceController) ListSessions(ctx *fiber.Ctx) error {
	res := c.service.Active(ctx.UserContext(), serverutils.UserID(ctx))
	return ctx.JSON(serverutils.SuccessResponse("Active voice sessions", res))
}

func (c *voiceController) StartSession(ctx *fiber.Ctx) error {
	var req dto.StartVoiceSessionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Start(ctx.UserContext(), serverutils.UserID(ctx), &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Voice session started", res))
}

func (c *voiceController) Transcript(ctx *fiber.Ctx) error {
	var req dto.VoiceTranscriptRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Transcript(ctx.UserContext(), serverutils.UserID(ctx), ctx.Params("id"), &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Transcript accepted", res))
}

func (c *voiceController) StopSession(ctx *fiber.Ctx) error {
	res, err := c.service.Stop(ctx.UserContext(), serverutils.UserID(ctx), ctx.Params("id"))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Voice session stopped", res))
}
