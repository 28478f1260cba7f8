// Package service contains supporting services that run outside the request
// path
package service

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mailer sends the verification mail over SMTP. It satisfies the account
// package's Notifier interface.
type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewMailer() *Mailer {
	from := viper.GetString("mail.from")

	return &Mailer{
		from: from,
		dialer: gomail.NewDialer(
			viper.GetString("mail.host"),
			viper.GetInt("mail.port"),
			viper.GetString("mail.username"),
			viper.GetString("mail.password"),
		),
	}
}

func (s *Mailer) SendVerificationMail(sendTo, username, code string) error {
	if sendTo == s.from {
		return errors.New("invalid email address")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", sendTo)
	m.SetHeader("Subject", "Verification Email - Price comparison")
	m.SetBody("text/html", fmt.Sprintf(
		"Hello %v,<br><br>Your verification code is <b>%v</b>.<br>Submit it to activate your account.",
		username, code))

	return s.dialer.DialAndSend(m)
}
