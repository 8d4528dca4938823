package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"keepsakes/dto/req"
	"keepsakes/dto/res"
	"keepsakes/usecase"
)

type AuthHandler struct {
	usecase.AuthUsecase
	*logrus.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUsecase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{AuthUsecase: authUseCase, Logger: logger}
}

func (handler *AuthHandler) RegisterUser(ctx *fiber.Ctx) error {
	// parse request
	payload := new(req.RegisterRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return fiber.ErrBadRequest
	}
	registerResponse, err := handler.AuthUsecase.RegisterUser(ctx.Context(), payload)
	if err != nil {
		handler.Logger.WithError(err).Warn("Failed to register new user")
		return err
	}
	response := res.CommonResponse[res.RegisterResponse]{
		Message:    "Successfully registered new user",
		StatusCode: fiber.StatusCreated,
		Data:       registerResponse,
	}
	handler.Logger.Infof("Success register user with id: %s", registerResponse.ID)
	return ctx.Status(fiber.StatusCreated).JSON(response)
}

func (handler *AuthHandler) LoginUser(ctx *fiber.Ctx) error {
	// parse request
	payload := new(req.LoginRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return fiber.ErrBadRequest
	}
	loginResponse, err := handler.AuthUsecase.LoginUser(ctx.Context(), payload)
	if err != nil {
		handler.Logger.WithError(err).Warn("Failed to login")
		return err
	}
	response := res.CommonResponse[res.LoginResponse]{
		Message:    "Successfully logged in",
		StatusCode: fiber.StatusOK,
		Data:       loginResponse,
	}
	return ctx.Status(fiber.StatusOK).JSON(response)
}
