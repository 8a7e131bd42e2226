package mail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
	"time"
)

const base64LineLength = 76

// Message is a plain-text mail with a single file attachment.
type Message struct {
	From           string
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
	Date           time.Time
}

// Build renders the message as multipart/mixed with CRLF line endings.
func (m Message) Build() ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	// Headers precede the parts, so render them into a separate buffer first.
	head := &bytes.Buffer{}
	fmt.Fprintf(head, "From: %s\r\n", m.From)
	fmt.Fprintf(head, "To: %s\r\n", m.To)
	fmt.Fprintf(head, "Subject: %s\r\n", mime.BEncoding.Encode("UTF-8", headerBreaks.Replace(m.Subject)))
	fmt.Fprintf(head, "Date: %s\r\n", m.Date.Format(time.RFC1123Z))
	head.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(head, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	bodyPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=UTF-8"},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, fmt.Errorf("create body part: %w", err)
	}
	if err := writeBase64(bodyPart, []byte(m.Body)); err != nil {
		return nil, fmt.Errorf("write body part: %w", err)
	}

	attachmentPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {mime.FormatMediaType("application/octet-stream", map[string]string{"name": m.AttachmentName})},
		"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": m.AttachmentName})},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, fmt.Errorf("create attachment part: %w", err)
	}
	if err := writeBase64(attachmentPart, m.Attachment); err != nil {
		return nil, fmt.Errorf("write attachment part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}
	return append(head.Bytes(), buf.Bytes()...), nil
}

var headerBreaks = strings.NewReplacer("\r", " ", "\n", " ")

func writeBase64(w io.Writer, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 0 {
		n := base64LineLength
		if len(encoded) < n {
			n = len(encoded)
		}
		if _, err := w.Write([]byte(encoded[:n] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}
