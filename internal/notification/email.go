package notification

import (
	"fmt"
	"net/smtp"
	"strings"
)

// EmailSender delivers a plain-text message to one recipient.
type EmailSender interface {
	Send(to, subject, body string) error
}

// SMTPSender talks unauthenticated SMTP, which covers Mailpit in dev and an
// authenticated relay is a drop-in behind the same addr.
type SMTPSender struct {
	addr string
	from string
}

func NewSMTPSender(host, port, fromEmail, fromName string) *SMTPSender {
	from := strings.TrimSpace(fromEmail)
	if from == "" {
		from = "noreply@glowstudio.local"
	}
	if name := strings.TrimSpace(fromName); name != "" {
		from = fmt.Sprintf("%s <%s>", name, from)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%s", strings.TrimSpace(host), strings.TrimSpace(port)),
		from: from,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.from, to, subject, body,
	)
	return smtp.SendMail(s.addr, nil, envelopeFrom(s.from), []string{to}, []byte(msg))
}

// envelopeFrom strips the display name for the SMTP envelope.
func envelopeFrom(from string) string {
	if i := strings.Index(from, "<"); i >= 0 {
		return strings.TrimRight(from[i+1:], ">")
	}
	return from
}
