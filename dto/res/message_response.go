package res

import "time"

type MessageResponse struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversationId"`
	SenderID       string     `json:"senderId"`
	SenderName     string     `json:"senderName,omitempty"`
	RecipientID    string     `json:"recipientId"`
	Content        string     `json:"content"`
	AttachmentURLs []string   `json:"attachmentUrls"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	ReadAt         *time.Time `json:"readAt"`
}

type LastMessageResponse struct {
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt"`
}

type ConversationResponse struct {
	ID          string               `json:"id"`
	OtherUser   UserSummary          `json:"otherUser"`
	LastMessage *LastMessageResponse `json:"lastMessage"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type ThreadResponse struct {
	ConversationID *string           `json:"conversationId"`
	Recipient      UserSummary       `json:"recipient"`
	IsBlocked      bool              `json:"isBlocked"`
	Messages       []MessageResponse `json:"messages"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}
