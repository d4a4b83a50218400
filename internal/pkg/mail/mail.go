package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds SMTP settings (matches the integrations settings section).
type Config struct {
	Enable bool   `json:"enable"`
	Host   string `json:"host"`
	Port   int    `json:"port"`
	User   string `json:"user"`
	Pass   string `json:"pass"`
	From   string `json:"from"`
}

// Message is a single email to send.
type Message struct {
	To      []string
	Subject string
	Text    string
}

// Sender sends plain-text emails via SMTP.
type Sender struct {
	cfg Config
}

func New(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// Send dispatches an email. No-op when mail is disabled.
func (s *Sender) Send(msg Message) error {
	if !s.cfg.Enable {
		return nil
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	var body strings.Builder
	body.WriteString("From: " + from + "\r\n")
	body.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	body.WriteString("Subject: " + msg.Subject + "\r\n")
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	body.WriteString(msg.Text)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, port)
	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}
	return smtp.SendMail(addr, auth, from, msg.To, []byte(body.String()))
}
