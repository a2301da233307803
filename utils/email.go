package utils

import (
	"gopkg.in/gomail.v2"
)

// MailSender sends a gomail message; *gomail.Dialer satisfies it.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	sender MailSender
	from   string
}

func NewMailer(host string, port int, user, password, from string) *Mailer {
	return &Mailer{sender: gomail.NewDialer(host, port, user, password), from: from}
}

func (m *Mailer) SendEmail(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.sender.DialAndSend(msg)
}
