package config

import (
	"github.com/gofiber/fiber/v2"

	"keepsakes/config/common"
	"keepsakes/handler"
)

func NewFiber(cfg *common.Config) *fiber.App {
	appName := cfg.GetAppConfig()
	_, readTimeout, writeTimeout := cfg.GetServerConfig()
	return fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
		AppName:       appName,
		ReadTimeout:   readTimeout,
		WriteTimeout:  writeTimeout,
		BodyLimit:     30 * 1024 * 1024,
		ErrorHandler:  handler.ErrorHandler,
	})
}
