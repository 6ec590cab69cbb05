package pushover

import (
	"context"
	"errors"
	"strings"

	gpushover "github.com/gregdel/pushover"

	"health-assistant-api/internal/ports/notify"
)

var (
	ErrNotConfigured  = errors.New("pushover sender not configured")
	ErrEmptyRecipient = errors.New("pushover recipient is empty")
)

// Sender implementa notify.Sender sobre la API de Pushover.
// El recipient del mensaje es la user key del destinatario.
type Sender struct {
	app *gpushover.Pushover
}

func NewSender(apiToken string) *Sender {
	apiToken = strings.TrimSpace(apiToken)
	if apiToken == "" {
		return &Sender{}
	}
	return &Sender{app: gpushover.New(apiToken)}
}

func (s *Sender) IsConfigured() bool {
	return s != nil && s.app != nil
}

func (s *Sender) Send(ctx context.Context, msg notify.Message) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	recipientKey := strings.TrimSpace(msg.Recipient)
	if recipientKey == "" {
		return ErrEmptyRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	recipient := gpushover.NewRecipient(recipientKey)
	message := gpushover.NewMessageWithTitle(msg.Body, msg.Title)

	_, err := s.app.SendMessage(message, recipient)
	return err
}
