package usecase

import "keepsakes/dto"

// EventPublisher delivers message events to connected participants.
type EventPublisher interface {
	Publish(event dto.MessageEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(dto.MessageEvent) {}

// NopPublisher drops every event.
func NopPublisher() EventPublisher { return nopPublisher{} }
