// Package mail sends messages over SMTP with a fluent builder:
//
//	mail.New().To(addr).Subject("...").Body("...").Send()
//
// Without MAIL_HOST configured, Send logs the message and returns nil so
// development environments need no mail server.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/travlrgetaways/travlr/config"
	"github.com/travlrgetaways/travlr/pkg/logger"
)

type Message struct {
	to      []string
	subject string
	body    string
	html    bool
}

func New() *Message {
	return &Message{}
}

func (m *Message) To(addrs ...string) *Message {
	m.to = append(m.to, addrs...)
	return m
}

func (m *Message) Subject(subject string) *Message {
	m.subject = subject
	return m
}

func (m *Message) Body(body string) *Message {
	m.body = body
	return m
}

func (m *Message) HTML(body string) *Message {
	m.body = body
	m.html = true
	return m
}

func (m *Message) Send() error {
	if len(m.to) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	host := config.MailHost()
	if host == "" {
		logger.Info("mail: MAIL_HOST not set, logging instead of sending",
			"to", strings.Join(m.to, ","), "subject", m.subject)
		return nil
	}

	from := config.MailFrom()
	contentType := "text/plain; charset=utf-8"
	if m.html {
		contentType = "text/html; charset=utf-8"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s <%s>\r\n", config.MailFromName(), from)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(m.to, ", "))
	fmt.Fprintf(&sb, "Subject: %s\r\n", m.subject)
	fmt.Fprintf(&sb, "MIME-Version: 1.0\r\nContent-Type: %s\r\n\r\n", contentType)
	sb.WriteString(m.body)

	addr := fmt.Sprintf("%s:%s", host, config.MailPort())

	var a smtp.Auth
	if config.MailUsername() != "" {
		a = smtp.PlainAuth("", config.MailUsername(), config.MailPassword(), host)
	}

	return smtp.SendMail(addr, a, from, m.to, []byte(sb.String()))
}
