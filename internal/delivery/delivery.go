// Package delivery hands generated reports to their recipients.
package delivery

import (
	"context"
)

const (
	DefaultSubject = "Super-Saving Revenue Report"
	DefaultBody    = "Please find the attached revenue report."
)

// Message is a report ready to be delivered. Attachments are file paths.
type Message struct {
	Subject     string
	Body        string
	Attachments []string
}

type Sink interface {
	Send(ctx context.Context, msg Message) error
}

// Nop drops every message.
type Nop struct{}

func (Nop) Send(context.Context, Message) error { return nil }
