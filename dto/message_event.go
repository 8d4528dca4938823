package dto

import (
	"keepsakes/dto/res"
	"keepsakes/enum"
)

// MessageEvent is pushed to the participants of a conversation after a
// mutation.
type MessageEvent struct {
	Type           enum.EventType       `json:"type"`
	ConversationID string               `json:"conversationId"`
	MessageID      string               `json:"messageId,omitempty"`
	Message        *res.MessageResponse `json:"message,omitempty"`
	Recipients     []string             `json:"-"`
}
