package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	appErrors "github.com/noah-isme/literacy-registrar/pkg/errors"
)

// Envelope is what a Relay needs to deliver one message.
type Envelope struct {
	From     string
	To       string
	Username string
	Secret   string
	Message  []byte
}

// Relay delivers a rendered message.
type Relay interface {
	Deliver(ctx context.Context, env Envelope) error
}

// SMTPRelay delivers through an SMTP submission server using STARTTLS and PLAIN auth.
type SMTPRelay struct {
	Host       string
	Port       int
	Timeout    time.Duration
	RequireTLS bool
	TLSConfig  *tls.Config
}

// NewSMTPRelay constructs a relay for host:port.
func NewSMTPRelay(host string, port int, timeout time.Duration, requireTLS bool) *SMTPRelay {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SMTPRelay{Host: host, Port: port, Timeout: timeout, RequireTLS: requireTLS}
}

// Deliver performs one SMTP session. It never retries.
func (r *SMTPRelay) Deliver(ctx context.Context, env Envelope) error {
	addr := net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
	dialer := &net.Dialer{Timeout: r.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return appErrors.As(err, appErrors.ErrTransport, fmt.Sprintf("connect to %s", addr))
	}

	deadline := time.Now().Add(r.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	client, err := smtp.NewClient(conn, r.Host)
	if err != nil {
		_ = conn.Close()
		return appErrors.As(err, appErrors.ErrTransport, "smtp greeting")
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := r.TLSConfig
		if tlsConfig == nil {
			tlsConfig = &tls.Config{ServerName: r.Host, MinVersion: tls.VersionTLS12}
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return appErrors.As(err, appErrors.ErrTransport, "starttls")
		}
	} else if r.RequireTLS {
		return appErrors.Clone(appErrors.ErrTransport, fmt.Sprintf("%s does not offer STARTTLS", addr))
	}

	if err := client.Auth(smtp.PlainAuth("", env.Username, env.Secret, r.Host)); err != nil {
		if isAuthRejection(err) {
			return appErrors.As(err, appErrors.ErrTransportAuth, "")
		}
		return appErrors.As(err, appErrors.ErrTransport, "smtp auth")
	}
	if err := client.Mail(env.From); err != nil {
		return appErrors.As(err, appErrors.ErrTransport, "smtp sender rejected")
	}
	if err := client.Rcpt(env.To); err != nil {
		return appErrors.As(err, appErrors.ErrTransport, "smtp recipient rejected")
	}
	w, err := client.Data()
	if err != nil {
		return appErrors.As(err, appErrors.ErrTransport, "smtp data")
	}
	if _, err := w.Write(env.Message); err != nil {
		_ = w.Close()
		return appErrors.As(err, appErrors.ErrTransport, "smtp data")
	}
	if err := w.Close(); err != nil {
		return appErrors.As(err, appErrors.ErrTransport, "smtp message rejected")
	}
	if err := client.Quit(); err != nil {
		return appErrors.As(err, appErrors.ErrTransport, "smtp quit")
	}
	return nil
}

// 534 and 535 are the submission server's answers to bad or refused credentials.
func isAuthRejection(err error) bool {
	var protoErr *textproto.Error
	if !errors.As(err, &protoErr) {
		return false
	}
	return protoErr.Code == 534 || protoErr.Code == 535
}
