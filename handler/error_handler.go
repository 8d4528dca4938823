package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"keepsakes/apperror"
	"keepsakes/dto/res"
)

// ErrorHandler renders every error returned by a handler as res.ErrorResponse.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		appErr        *apperror.AppError
		validationErr validator.ValidationErrors
		fiberErr      *fiber.Error
	)

	switch {
	case errors.As(err, &appErr):
		status := appErr.Status()
		if status >= fiber.StatusInternalServerError {
			log.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
		}
		return writeError(c, status, string(appErr.Code), appErr.Message)
	case errors.As(err, &validationErr):
		reasons := make(map[string]string, len(validationErr))
		for _, fieldErr := range validationErr {
			reasons[fieldErr.Field()] = validationReason(fieldErr)
		}
		return writeError(c, fiber.StatusBadRequest, string(apperror.CodeValidation), reasons)
	case errors.As(err, &fiberErr):
		code := ""
		switch fiberErr.Code {
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = string(apperror.CodeValidation)
		case fiber.StatusNotFound:
			code = string(apperror.CodeNotFound)
		case fiber.StatusUnauthorized:
			code = string(apperror.CodeUnauthenticated)
		}
		return writeError(c, fiberErr.Code, code, fiberErr.Message)
	default:
		log.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
		return writeError(c, fiber.StatusInternalServerError, string(apperror.CodeInternal), "internal server error")
	}
}

func writeError(c *fiber.Ctx, status int, code string, detail interface{}) error {
	return c.Status(status).JSON(res.ErrorResponse{
		Status:     fiber.NewError(status).Message,
		StatusCode: status,
		Code:       code,
		Error:      detail,
	})
}

func validationReason(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldErr.Param())
	default:
		return fmt.Sprintf("failed on %s", fieldErr.Tag())
	}
}
