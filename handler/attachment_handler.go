package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"keepsakes/apperror"
	"keepsakes/attachment"
	"keepsakes/dto/res"
	"keepsakes/middleware"
)

type AttachmentHandler struct {
	*attachment.Manager
	*logrus.Logger
}

func NewAttachmentHandler(manager *attachment.Manager, logger *logrus.Logger) *AttachmentHandler {
	return &AttachmentHandler{Manager: manager, Logger: logger}
}

// Upload accepts up to five multipart "attachments" and returns their URLs in
// request order.
func (handler *AttachmentHandler) Upload(c *fiber.Ctx) error {
	if middleware.UserID(c) == "" {
		return apperror.ErrNotAuthenticated
	}
	form, err := c.MultipartForm()
	if err != nil {
		return apperror.Validation("no files uploaded")
	}
	headers := form.File["attachments"]

	files := make([]attachment.UploadFile, 0, len(headers))
	for _, header := range headers {
		content, err := header.Open()
		if err != nil {
			return apperror.Internal(err)
		}
		defer content.Close()
		files = append(files, attachment.UploadFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get(fiber.HeaderContentType),
			Size:        header.Size,
			Content:     content,
		})
	}

	urls, err := handler.Manager.Upload(c.Context(), files)
	if err != nil {
		handler.Logger.WithError(err).Warn("Attachment upload rejected")
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[res.UploadResponse]{
		Message:    "Files uploaded successfully",
		StatusCode: fiber.StatusOK,
		Data:       res.UploadResponse{URLs: urls},
	})
}
