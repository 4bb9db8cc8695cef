package email

import (
	"artexpertise_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// GomailSender реализует Provider поверх SMTP через gomail
type GomailSender struct {
	cfg *config.Config
}

func NewGomailSender(cfg *config.Config) *GomailSender {
	return &GomailSender{cfg: cfg}
}

func (e *GomailSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.Email.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		e.cfg.Email.SMTPHost,
		e.cfg.Email.SMTPPort,
		e.cfg.Email.SMTPUsername,
		e.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}
