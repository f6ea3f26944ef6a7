package controller

import (
	"ppods-be/internal/dto"
	"ppods-be/internal/pkg/serverutils"
	"ppods-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProfileController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	RecordProgress(ctx *fiber.Ctx) error
}

type profileController struct {
	service service.IProfileService
}

func NewProfileController(service service.IProfileService) IProfileController {
	return &profileController{service: service}
}

func (c *profileController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/profile", auth)
	h.Get("/", c.GetProfile)
	h.Put("/", c.UpdateProfile)
	h.Post("/progress", c.RecordProgress)
}

func (c *profileController) GetProfile(ctx *fiber.Ctx) error {
	res, err := c.service.GetOrCreate(ctx.UserContext(), serverutils.UserID(ctx), serverutils.UserName(ctx))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

func (c *profileController) UpdateProfile(ctx *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), serverutils.UserID(ctx), &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *profileController) RecordProgress(ctx *fiber.Ctx) error {
	var req dto.RecordProgressRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.RecordProgress(ctx.UserContext(), serverutils.UserID(ctx), &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Progress recorded", res))
}
