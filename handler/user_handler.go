package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"keepsakes/dto/req"
	"keepsakes/dto/res"
	"keepsakes/middleware"
	"keepsakes/usecase"
)

type UserHandler struct {
	usecase.UserUsecase
	Blocks usecase.BlockUsecase
	*logrus.Logger
}

func NewUserHandler(userUsecase usecase.UserUsecase, blockUsecase usecase.BlockUsecase, logger *logrus.Logger) *UserHandler {
	return &UserHandler{UserUsecase: userUsecase, Blocks: blockUsecase, Logger: logger}
}

func (handler *UserHandler) GetMe(c *fiber.Ctx) error {
	user, err := handler.UserUsecase.GetMe(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[res.UserResponse]{
		Message:    "Successfully retrieved user",
		StatusCode: fiber.StatusOK,
		Data:       user,
	})
}

func (handler *UserHandler) GetBySlug(c *fiber.Ctx) error {
	user, err := handler.UserUsecase.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[res.UserResponse]{
		Message:    "Successfully retrieved user",
		StatusCode: fiber.StatusOK,
		Data:       user,
	})
}

func (handler *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	payload := new(req.EditProfileRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.ErrBadRequest
	}
	user, err := handler.UserUsecase.UpdateProfile(c.Context(), middleware.UserID(c), payload)
	if err != nil {
		handler.Logger.WithError(err).Warn("Failed to update profile")
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[res.UserResponse]{
		Message:    "Profile updated successfully",
		StatusCode: fiber.StatusOK,
		Data:       user,
	})
}

func (handler *UserHandler) UploadProfileImage(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	content, err := file.Open()
	if err != nil {
		return err
	}
	defer content.Close()

	url, err := handler.UserUsecase.UploadProfileImage(c.Context(), middleware.UserID(c), content, file.Filename)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[res.UploadResponse]{
		Message:    "Image uploaded successfully",
		StatusCode: fiber.StatusOK,
		Data:       res.UploadResponse{URLs: []string{url}},
	})
}

func (handler *UserHandler) BlockStatus(c *fiber.Ctx) error {
	status, err := handler.Blocks.Status(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[res.BlockStatusResponse]{
		Message:    "Successfully retrieved block status",
		StatusCode: fiber.StatusOK,
		Data:       status,
	})
}

func (handler *UserHandler) BlockUser(c *fiber.Ctx) error {
	if err := handler.Blocks.Block(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[any]{
		Message:    "User blocked",
		StatusCode: fiber.StatusOK,
	})
}

func (handler *UserHandler) UnblockUser(c *fiber.Ctx) error {
	if err := handler.Blocks.Unblock(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[any]{
		Message:    "User unblocked",
		StatusCode: fiber.StatusOK,
	})
}
