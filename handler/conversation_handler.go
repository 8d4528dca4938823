package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"keepsakes/dto/res"
	"keepsakes/middleware"
	"keepsakes/usecase"
)

type ConversationHandler struct {
	usecase.ConversationUsecase
	*logrus.Logger
}

func NewConversationHandler(conversationUsecase usecase.ConversationUsecase, logger *logrus.Logger) *ConversationHandler {
	return &ConversationHandler{ConversationUsecase: conversationUsecase, Logger: logger}
}

func (handler *ConversationHandler) ListConversations(c *fiber.Ctx) error {
	conversations, err := handler.ConversationUsecase.ListConversations(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[[]res.ConversationResponse]{
		Message:    "Successfully retrieved conversations",
		StatusCode: fiber.StatusOK,
		Data:       conversations,
	})
}

func (handler *ConversationHandler) GetThread(c *fiber.Ctx) error {
	thread, err := handler.ConversationUsecase.GetThread(c.Context(), middleware.UserID(c), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[res.ThreadResponse]{
		Message:    "Successfully retrieved thread",
		StatusCode: fiber.StatusOK,
		Data:       thread,
	})
}

func (handler *ConversationHandler) MarkRead(c *fiber.Ctx) error {
	result, err := handler.ConversationUsecase.MarkConversationRead(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[res.MarkReadResponse]{
		Message:    "Conversation marked as read",
		StatusCode: fiber.StatusOK,
		Data:       result,
	})
}

func (handler *ConversationHandler) DeleteConversation(c *fiber.Ctx) error {
	conversationID := c.Params("id")
	if err := handler.ConversationUsecase.DeleteConversation(c.Context(), conversationID, middleware.UserID(c)); err != nil {
		handler.Logger.WithError(err).Warnf("Failed to delete conversation %s", conversationID)
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[any]{
		Message:    "Conversation deleted",
		StatusCode: fiber.StatusOK,
	})
}
