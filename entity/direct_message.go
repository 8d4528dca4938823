package entity

import (
	"time"

	"gorm.io/gorm"
)

type DirectMessage struct {
	BaseEntity
	ConversationID string     `json:"conversationId" gorm:"type:varchar(36);not null;index"`
	SenderID       string     `json:"senderId" gorm:"type:varchar(36);not null;index"`
	RecipientID    string     `json:"recipientId" gorm:"type:varchar(36);not null;index"`
	Content        string     `json:"content" gorm:"type:text"`
	AttachmentURLs []string   `json:"attachmentUrls" gorm:"type:text;serializer:json"`
	ReadAt         *time.Time `json:"readAt,omitempty"`

	Conversation Conversation `json:"-" gorm:"foreignKey:ConversationID;references:ID"`
	Sender       User         `json:"-" gorm:"foreignKey:SenderID;references:ID"`
	Recipient    User         `json:"-" gorm:"foreignKey:RecipientID;references:ID"`
}

func (m *DirectMessage) BeforeSave(tx *gorm.DB) error {
	if m.AttachmentURLs == nil {
		m.AttachmentURLs = []string{}
	}
	return nil
}
