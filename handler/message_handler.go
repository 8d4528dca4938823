package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"keepsakes/dto/req"
	"keepsakes/dto/res"
	"keepsakes/middleware"
	"keepsakes/usecase"
)

type MessageHandler struct {
	usecase.MessageUsecase
	*logrus.Logger
}

func NewMessageHandler(messageUsecase usecase.MessageUsecase, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{MessageUsecase: messageUsecase, Logger: logger}
}

func (handler *MessageHandler) SendMessage(c *fiber.Ctx) error {
	payload := new(req.SendMessageRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.ErrBadRequest
	}
	message, err := handler.MessageUsecase.SendMessage(c.Context(), middleware.UserID(c), payload)
	if err != nil {
		handler.Logger.WithError(err).Warn("Failed to send message")
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res.CommonResponse[res.MessageResponse]{
		Message:    "Message sent",
		StatusCode: fiber.StatusCreated,
		Data:       message,
	})
}

func (handler *MessageHandler) UpdateMessage(c *fiber.Ctx) error {
	payload := new(req.UpdateMessageRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.ErrBadRequest
	}
	message, err := handler.MessageUsecase.UpdateMessage(c.Context(), c.Params("id"), middleware.UserID(c), payload)
	if err != nil {
		handler.Logger.WithError(err).Warn("Failed to update message")
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[res.MessageResponse]{
		Message:    "Message updated",
		StatusCode: fiber.StatusOK,
		Data:       message,
	})
}

func (handler *MessageHandler) DeleteMessage(c *fiber.Ctx) error {
	if err := handler.MessageUsecase.DeleteMessage(c.Context(), c.Params("id"), middleware.UserID(c)); err != nil {
		handler.Logger.WithError(err).Warn("Failed to delete message")
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[any]{
		Message:    "Message deleted",
		StatusCode: fiber.StatusOK,
	})
}
