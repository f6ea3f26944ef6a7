package controller

import (
	"ppods-be/internal/dto"
	"ppods-be/internal/pkg/serverutils"
	"ppods-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Start(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/chat", auth)
	h.Post("/start", c.Start)
	h.Post("/messages", c.SendMessage)
}

func (c *chatController) Start(ctx *fiber.Ctx) error {
	res, err := c.service.StartConversation(ctx.UserContext(), serverutils.UserID(ctx))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation ready", res))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendChatMessageRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.UserContext(), serverutils.UserID(ctx), &req)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Message sent", res))
}
