package mail

import (
	"context"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/cavanpasek/ouray-info/internal/adapters/observability"
)

// Mailer delivers contact-form messages over SMTP. An incomplete
// configuration reports Configured() == false and the contact page
// renders a "not configured" notice instead of crashing.
type Mailer struct {
	host    string
	port    int
	user    string
	pass    string
	from    string
	to      []string
	timeout time.Duration
}

func New(host string, port int, user, pass, from string, to []string, timeout time.Duration) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from, to: to, timeout: timeout}
}

func (m *Mailer) Configured() bool {
	return m.host != "" && m.from != "" && len(m.to) > 0
}

func (m *Mailer) Send(ctx context.Context, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(m.to...); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	opts := []gomail.Option{
		gomail.WithPort(m.port),
		gomail.WithTimeout(m.timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if m.user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.user),
			gomail.WithPassword(m.pass),
		)
	}

	client, err := gomail.NewClient(m.host, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		observability.ObserveExternal("mail", "error", time.Since(start))
		return err
	}
	observability.ObserveExternal("mail", "ok", time.Since(start))
	return nil
}
