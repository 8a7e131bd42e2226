package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/literacy-registrar/internal/validation"
	appErrors "github.com/noah-isme/literacy-registrar/pkg/errors"
	"github.com/noah-isme/literacy-registrar/pkg/mail"
)

type tempExporter interface {
	ExportTemp(ctx context.Context) (string, func(), error)
}

type mailSender interface {
	Send(ctx context.Context, req mail.SendRequest) error
}

type mailRecorder interface {
	RecordMail(outcome string)
}

// MailDefaults is the content used when a request leaves subject or body empty.
type MailDefaults struct {
	Subject        string
	Body           string
	AttachmentName string
}

// SendMailRequest carries the sender mailbox credentials and the recipient.
type SendMailRequest struct {
	SenderEmail    string `json:"sender_email" validate:"required,email,max=254"`
	SenderSecret   string `json:"sender_secret" validate:"required"`
	RecipientEmail string `json:"recipient_email" validate:"required,email,max=254"`
	Subject        string `json:"subject" validate:"max=255"`
	Body           string `json:"body" validate:"max=10000"`
}

// SendMailResult reports a completed delivery.
type SendMailResult struct {
	Recipient  string `json:"recipient"`
	Attachment string `json:"attachment"`
}

// MailService mails a fresh spreadsheet snapshot.
type MailService struct {
	exports   tempExporter
	sender    mailSender
	validator *validator.Validate
	metrics   mailRecorder
	logger    *zap.Logger
	defaults  MailDefaults
}

// NewMailService constructs a MailService.
func NewMailService(exports tempExporter, sender mailSender, validate *validator.Validate, logger *zap.Logger, defaults MailDefaults) *MailService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.Subject == "" {
		defaults.Subject = "بيانات المتمدرسين"
	}
	if defaults.Body == "" {
		defaults.Body = "مرفق ملف بيانات المتمدرسين"
	}
	if defaults.AttachmentName == "" {
		defaults.AttachmentName = "bd_students.xlsx"
	}
	return &MailService{exports: exports, sender: sender, validator: validate, logger: logger, defaults: defaults}
}

// WithMetrics attaches a delivery counter.
func (s *MailService) WithMetrics(metrics mailRecorder) *MailService {
	s.metrics = metrics
	return s
}

// SendExport renders the current store into a temp workbook and mails it. Nothing is retried.
func (s *MailService) SendExport(ctx context.Context, req SendMailRequest) (*SendMailResult, error) {
	req.SenderEmail = strings.TrimSpace(req.SenderEmail)
	req.RecipientEmail = strings.TrimSpace(req.RecipientEmail)
	if err := s.validator.Struct(req); err != nil {
		s.record(OutcomeFailure)
		return nil, appErrors.As(err, appErrors.ErrValidation, "invalid mail payload")
	}

	path, cleanup, err := s.exports.ExportTemp(ctx)
	if err != nil {
		s.record(OutcomeFailure)
		return nil, err
	}
	defer cleanup()

	subject := req.Subject
	if strings.TrimSpace(subject) == "" {
		subject = s.defaults.Subject
	}
	body := req.Body
	if strings.TrimSpace(body) == "" {
		body = s.defaults.Body
	}

	err = s.sender.Send(ctx, mail.SendRequest{
		FilePath:       path,
		Sender:         mail.Sender{Address: req.SenderEmail, Secret: req.SenderSecret},
		Recipient:      req.RecipientEmail,
		Subject:        subject,
		Body:           body,
		AttachmentName: s.defaults.AttachmentName,
	})
	if err != nil {
		s.record(OutcomeFailure)
		return nil, err
	}

	s.record(OutcomeSuccess)
	return &SendMailResult{Recipient: req.RecipientEmail, Attachment: s.defaults.AttachmentName}, nil
}

func (s *MailService) record(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordMail(outcome)
	}
}
