package service

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	config "github.com/maheshrc27/reelpay/configs"
)

var ErrEmailNotConfigured = errors.New("smtp host is not configured")

type EmailService interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type emailService struct {
	cfg  config.SMTP
	auth smtp.Auth
}

func NewEmailService(cfg config.SMTP) EmailService {
	var auth smtp.Auth
	if cfg.User != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	return &emailService{cfg: cfg, auth: auth}
}

func (s *emailService) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		return ErrEmailNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	body := buildMessage(s.cfg.From, s.cfg.FromName, to, subject, htmlBody)

	if s.auth != nil {
		return smtp.SendMail(addr, s.auth, s.cfg.From, []string{to}, body)
	}

	c, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer c.Close()

	if err := c.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return c.Quit()
}

func buildMessage(from, fromName, to, subject, htmlBody string) []byte {
	fromHeader := from
	if strings.TrimSpace(fromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", fromName, from)
	}

	msg := []string{
		"From: " + sanitizeHeader(fromHeader),
		"To: " + sanitizeHeader(to),
		"Subject: " + sanitizeHeader(subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"",
		htmlBody,
	}
	return []byte(strings.Join(msg, "\r\n"))
}

func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", "")
}
