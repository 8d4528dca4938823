package req

type SendMessageRequest struct {
	Content        string   `json:"content"`
	RecipientID    string   `json:"recipientId" validate:"required"`
	ConversationID *string  `json:"conversationId"`
	AttachmentURLs []string `json:"attachmentUrls"`
}

type UpdateMessageRequest struct {
	Content        string   `json:"content"`
	AttachmentURLs []string `json:"attachmentUrls"`
}
