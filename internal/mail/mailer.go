// AngelaMos | 2026
// mailer.go

package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/angelamos/reviewdeck/internal/config"
)

// Sender dispatches confirmation codes. Delivery is synchronous and a
// failure must abort the signup request that triggered it.
type Sender interface {
	SendConfirmationCode(to, username, code string) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(
			cfg.Host,
			cfg.Port,
			cfg.Username,
			cfg.Password,
		),
		from: cfg.From,
	}
}

const confirmationSubject = "Your reviewdeck confirmation code"

func (s *SMTPSender) SendConfirmationCode(to, username, code string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your confirmation code is: %s\n\n"+
			"Exchange it for an access token at POST /v1/auth/token/ "+
			"with your username.\n\n"+
			"If you did not request this code, ignore this message.\n",
		username,
		code,
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", confirmationSubject)
	msg.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send confirmation code: %w", err)
	}

	return nil
}
