package notify

import (
	"fmt"

	"github.com/jobconnect-ng/jobconnect/internal/apperr"
	"github.com/jobconnect-ng/jobconnect/internal/config"
	gomail "gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer emails recruiters about new applications over SMTP.
type Mailer struct {
	dialer dialer
	from   string
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// NotifyRecruiter sends one application email. Callers log failures instead
// of rolling back the already-written application row.
func (m *Mailer) NotifyRecruiter(email, jobTitle, cvText, coverLetter, applicantEmail string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", fmt.Sprintf("New application: %s", jobTitle))
	msg.SetHeader("Reply-To", applicantEmail)
	msg.SetBody("text/plain", fmt.Sprintf(
		"A candidate applied for %s.\n\nApplicant: %s\n\nCover letter:\n%s\n\nCV:\n%s\n",
		jobTitle, applicantEmail, coverLetter, cvText,
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return &apperr.ProviderError{Provider: "smtp", Err: err}
	}
	return nil
}
