package usecase

import (
	"keepsakes/dto/res"
	"keepsakes/entity"
)

const attachmentsPlaceholder = "[Attachments]"

func toUserSummary(user entity.User) res.UserSummary {
	return res.UserSummary{ID: user.ID, Name: user.Name, Slug: user.Slug, Image: user.Image}
}

func toUserResponse(user entity.User, includeEmail bool) res.UserResponse {
	response := res.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Slug:      user.Slug,
		Image:     user.Image,
		Location:  user.Location,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
	}
	if includeEmail {
		response.Email = user.Email
	}
	return response
}

func toMessageResponse(message entity.DirectMessage) res.MessageResponse {
	urls := message.AttachmentURLs
	if urls == nil {
		urls = []string{}
	}
	return res.MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		SenderName:     message.Sender.Name,
		RecipientID:    message.RecipientID,
		Content:        message.Content,
		AttachmentURLs: urls,
		CreatedAt:      message.CreatedAt,
		UpdatedAt:      message.UpdatedAt,
		ReadAt:         message.ReadAt,
	}
}

func toLastMessageResponse(message *entity.DirectMessage) *res.LastMessageResponse {
	if message == nil {
		return nil
	}
	content := message.Content
	if content == "" {
		content = attachmentsPlaceholder
	}
	return &res.LastMessageResponse{Content: content, CreatedAt: message.CreatedAt, ReadAt: message.ReadAt}
}
