package notification

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/config"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer emails customers about their bookings. Notifications without a
// customer email or for events customers don't receive are skipped.
type SMTPMailer struct {
	config config.EmailConfig
	send   sendFunc
	logger *zap.Logger
}

func NewSMTPMailer(cfg config.EmailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{config: cfg, send: smtp.SendMail, logger: logger}
}

func (m *SMTPMailer) Notify(ctx context.Context, n entity.Notification) error {
	if n.CustomerEmail == "" {
		return nil
	}
	subject, body, ok := renderEmail(n, m.config.FromName)
	if !ok {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := m.buildMessage(n.CustomerEmail, subject, body, n.Attachments)
	addr := fmt.Sprintf("%s:%d", m.config.SMTPHost, m.config.SMTPPort)

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.SMTPHost)
	}

	if err := m.send(addr, auth, m.config.FromAddress, []string{n.CustomerEmail}, msg); err != nil {
		return fmt.Errorf("failed to send %s email: %w", n.Event, err)
	}

	m.logger.Info("Email sent",
		zap.String("event", string(n.Event)),
		zap.String("booking_id", n.BookingID),
		zap.Int("attachments", len(n.Attachments)))
	return nil
}

func (m *SMTPMailer) buildMessage(to, subject, body string, attachments []entity.Attachment) []byte {
	var buf bytes.Buffer

	from := m.config.FromAddress
	if m.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.config.FromName), m.config.FromAddress)
	}
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(attachments) == 0 {
		buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
		buf.WriteString(body)
		return buf.Bytes()
	}

	boundary := "booking-" + uuid.NewString()
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=\"%s\"\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n")

	for _, a := range attachments {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s; name=\"%s\"\r\n", a.ContentType, a.Name)
		buf.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=\"%s\"\r\n\r\n", a.Name)
		writeBase64Lines(&buf, a.Data)
	}
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	return buf.Bytes()
}

// writeBase64Lines wraps at 76 characters as MIME requires.
func writeBase64Lines(buf *bytes.Buffer, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76])
		buf.WriteString("\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded)
	buf.WriteString("\r\n")
}
