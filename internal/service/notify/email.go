// Package notify delivers emails to users.
package notify

import (
	"context"
	"fmt"

	"github.com/nkiryanov/identity/internal/models"
)

// Email message. HTML body is optional
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

// Email sent to user right after registration
func WelcomeEmail(user models.User) Email {
	return Email{
		To:      user.Email,
		Subject: "Welcome!",
		Text:    fmt.Sprintf("Hi %s, your account has been created.", user.Name),
	}
}
