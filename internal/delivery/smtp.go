package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTP mails reports through an authenticated relay. smtp.SendMail upgrades
// to STARTTLS when the server offers it.
type SMTP struct {
	cfg  SMTPConfig
	send sendFunc
	now  func() time.Time
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{cfg: cfg, send: smtp.SendMail, now: time.Now}
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(s.cfg.To) == 0 {
		return errors.New("no report recipient configured")
	}

	data, err := Compose(Envelope{From: s.cfg.From, To: s.cfg.To}, msg, s.now())
	if err != nil {
		return fmt.Errorf("compose report e-mail: %w", err)
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	if err := s.send(addr, auth, s.cfg.From, s.cfg.To, data); err != nil {
		return fmt.Errorf("send report e-mail: %w", err)
	}

	slog.Info("report e-mailed", "to", s.cfg.To, "attachments", len(msg.Attachments))

	return nil
}
