// Package smtpmail implements the email-sender contract over plain SMTP.
//
// The pack carries no SMTP library, so this sits directly on net/smtp: one
// AUTH PLAIN submission per message, STARTTLS negotiated by SendMail when
// the server offers it.
package smtpmail

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"

	"github.com/pellume/provisioner/repository"
)

const welcomeSubject = "Bem-vinda! Seus dados de acesso à plataforma"

// Config holds SMTP submission settings.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	// From is the display name used on the From header; the address is User.
	From string
}

type sender struct {
	cfg Config
	// send is swappable in tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSender creates an EmailSender submitting through the configured relay.
func NewSender(cfg Config) repository.EmailSender {
	return &sender{cfg: cfg, send: smtp.SendMail}
}

func (s *sender) SendWelcome(ctx context.Context, to, name, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := welcomeTmpl.Execute(&body, welcomeData{
		Name:     name,
		Email:    to,
		Password: password,
	}); err != nil {
		return fmt.Errorf("welcome template failed: %w", err)
	}

	msg := buildMessage(s.cfg.From, s.cfg.User, to, welcomeSubject, body.Bytes())
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)

	if err := s.send(addr, auth, s.cfg.User, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

func buildMessage(fromName, fromAddr, to, subject string, htmlBody []byte) []byte {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", fromName), fromAddr)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.Write(htmlBody)
	return msg.Bytes()
}
