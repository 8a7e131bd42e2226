// Package mail sends spreadsheet snapshots as mail attachments.
package mail

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/literacy-registrar/pkg/errors"
)

// Sender identifies the mailbox the message is sent from.
type Sender struct {
	Address string
	Secret  string
}

// SendRequest describes one attachment delivery.
type SendRequest struct {
	FilePath       string
	Sender         Sender
	Recipient      string
	Subject        string
	Body           string
	AttachmentName string
}

// Transport validates requests, builds the message and hands it to a Relay.
type Transport struct {
	relay  Relay
	logger *zap.Logger
	now    func() time.Time
}

// NewTransport constructs a Transport.
func NewTransport(relay Relay, logger *zap.Logger) *Transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{relay: relay, logger: logger, now: time.Now}
}

// Send delivers the file at req.FilePath to a single recipient.
// Missing credentials or recipient fail before the file is read or a connection opened.
func (t *Transport) Send(ctx context.Context, req SendRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	attachment, err := os.ReadFile(req.FilePath)
	if err != nil {
		return appErrors.As(err, appErrors.ErrTransport, "read attachment")
	}

	name := req.AttachmentName
	if name == "" {
		name = filepath.Base(req.FilePath)
	}
	message, err := Message{
		From:           req.Sender.Address,
		To:             req.Recipient,
		Subject:        req.Subject,
		Body:           req.Body,
		AttachmentName: name,
		Attachment:     attachment,
		Date:           t.now(),
	}.Build()
	if err != nil {
		return appErrors.As(err, appErrors.ErrTransport, "build message")
	}

	err = t.relay.Deliver(ctx, Envelope{
		From:     req.Sender.Address,
		To:       req.Recipient,
		Username: req.Sender.Address,
		Secret:   req.Sender.Secret,
		Message:  message,
	})
	if err != nil {
		t.logger.Warn("mail delivery failed", zap.String("recipient", req.Recipient), zap.Error(err))
		return err
	}
	t.logger.Info("mail delivered", zap.String("recipient", req.Recipient), zap.Int("attachment_bytes", len(attachment)))
	return nil
}

func validate(req SendRequest) error {
	switch {
	case strings.TrimSpace(req.Sender.Address) == "":
		return appErrors.Clone(appErrors.ErrValidation, "sender address is required")
	case req.Sender.Secret == "":
		return appErrors.Clone(appErrors.ErrValidation, "sender secret is required")
	case strings.TrimSpace(req.Recipient) == "":
		return appErrors.Clone(appErrors.ErrValidation, "recipient is required")
	case strings.ContainsAny(req.Sender.Address+req.Recipient, "\r\n"):
		return appErrors.Clone(appErrors.ErrValidation, "addresses must not contain line breaks")
	}
	return nil
}
