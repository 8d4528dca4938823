package enum

type EventType string

const (
	EventMessageCreated      EventType = "message.created"
	EventMessageUpdated      EventType = "message.updated"
	EventMessageDeleted      EventType = "message.deleted"
	EventConversationRead    EventType = "conversation.read"
	EventConversationDeleted EventType = "conversation.deleted"
)
