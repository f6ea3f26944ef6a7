package controller

import (
	"ppods-be/internal/dto"
	"ppods-be/internal/pkg/serverutils"
	"ppods-be/internal/service"
	"ppods-be/pkg/appstate"

	"github.com/gofiber/fiber/v2"
)

type IStateController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	GetState(ctx *fiber.Ctx) error
	SetTheme(ctx *fiber.Ctx) error
	SetSystemTheme(ctx *fiber.Ctx) error
	UpdateAccessibility(ctx *fiber.Ctx) error
	ToggleEmergency(ctx *fiber.Ctx) error
	ClearUser(ctx *fiber.Ctx) error
	ListMessages(ctx *fiber.Ctx) error
	AddMessage(ctx *fiber.Ctx) error
}

type stateController struct {
	service service.IStateService
}

func NewStateController(service service.IStateService) IStateController {
	return &stateController{service: service}
}

func (c *stateController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/state", auth)
	h.Get("/", c.GetState)
	h.Put("/theme", c.SetTheme)
	h.Put("/system-theme", c.SetSystemTheme)
	h.Patch("/accessibility", c.UpdateAccessibility)
	h.Post("/emergency/toggle", c.ToggleEmergency)
	h.Delete("/user", c.ClearUser)
	h.Get("/messages", c.ListMessages)
	h.Post("/messages", c.AddMessage)
}

func (c *stateController) GetState(ctx *fiber.Ctx) error {
	res := c.service.GetState(ctx.UserContext(), serverutils.UserID(ctx))
	return ctx.JSON(serverutils.SuccessResponse("Application state", res))
}

func (c *stateController) SetTheme(ctx *fiber.Ctx) error {
	var req dto.UpdateThemeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetTheme(ctx.UserContext(), serverutils.UserID(ctx), appstate.Theme(req.Theme))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Theme updated", res))
}

func (c *stateController) SetSystemTheme(ctx *fiber.Ctx) error {
	var req dto.UpdateSystemThemeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetSystemTheme(ctx.UserContext(), serverutils.UserID(ctx), appstate.Theme(req.Theme))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("System theme updated", res))
}

func (c *stateController) UpdateAccessibility(ctx *fiber.Ctx) error {
	var raw map[string]any
	if err := parseBody(ctx, &raw); err != nil {
		return err
	}

	res, err := c.service.UpdateAccessibility(ctx.UserContext(), serverutils.UserID(ctx), raw)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Accessibility settings updated", res))
}

func (c *stateController) ToggleEmergency(ctx *fiber.Ctx) error {
	res, err := c.service.ToggleEmergencyMode(ctx.UserContext(), serverutils.UserID(ctx))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Emergency mode toggled", res))
}

func (c *stateController) ClearUser(ctx *fiber.Ctx) error {
	res := c.service.ClearUser(ctx.UserContext(), serverutils.UserID(ctx))
	return ctx.JSON(serverutils.SuccessResponse("User cleared", res))
}

func (c *stateController) ListMessages(ctx *fiber.Ctx) error {
	res := c.service.ListMessages(ctx.UserContext(), serverutils.UserID(ctx))
	return ctx.JSON(serverutils.SuccessResponse("Chat messages", res))
}

func (c *stateController) AddMessage(ctx *fiber.Ctx) error {
	var req dto.AddMessageRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddMessage(ctx.UserContext(), serverutils.UserID(ctx), &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Message added", res))
}
