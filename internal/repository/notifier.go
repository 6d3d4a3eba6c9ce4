package repository

import "context"

// Email is the payload accepted by the email dispatch collaborator.
type Email struct {
	Type string         `json:"type"`
	To   string         `json:"to"`
	Data map[string]any `json:"data"`
}

// EmailSender delivers templated emails.
type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

// EventPublisher broadcasts run events to other services.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}
