package application

import (
	"log"
	"os"
	"time"

	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"github.com/sendexa/Drush-Booking/domain"
)

var (
	smtpServer     = "smtp.office365.com"
	smtpServerPort = 587
	smtpEmail      = os.Getenv("SMTP_AUTH_MAIL")
	smtpPassword   = os.Getenv("SMTP_AUTH_PASSWORD")
)

// SMTPMailer sends transactional mail behind a circuit breaker so a dead
// SMTP relay cannot hold request handlers open.
type SMTPMailer struct {
	cb *gobreaker.CircuitBreaker
}

func NewSMTPMailer() domain.Mailer {
	return &SMTPMailer{
		cb: CircuitBreaker("mailer"),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	_, err := m.cb.Execute(func() (interface{}, error) {
		message := gomail.NewMessage()
		message.SetHeader("From", smtpEmail)
		message.SetHeader("To", to)
		message.SetHeader("Subject", subject)
		message.SetBody("text", body)

		client := gomail.NewDialer(smtpServer, smtpServerPort, smtpEmail, smtpPassword)

		if err := client.DialAndSend(message); err != nil {
			log.Printf("failed to send mail: %s", err)
			return nil, err
		}
		return nil, nil
	})
	return err
}

func CircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Printf("Circuit Breaker '%s' changed from '%s' to '%s'\n", name, from, to)
			},
		},
	)
}
