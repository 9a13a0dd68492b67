package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

type Config struct {
	Host     string
	Port     string
	From     string
	Password string
}

type Mailer struct {
	cfg Config
}

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func composeEnrollment(activityName, action string) (string, string, error) {
	switch action {
	case "signup":
		subject := fmt.Sprintf("You are signed up for %s", activityName)
		body := fmt.Sprintf("Hello!\n\nYou have been signed up for %s at Mergington High School.\nSee you there!", activityName)
		return subject, body, nil
	case "unregister":
		subject := fmt.Sprintf("You have been unregistered from %s", activityName)
		body := fmt.Sprintf("Hello!\n\nYou have been unregistered from %s at Mergington High School.", activityName)
		return subject, body, nil
	default:
		return "", "", fmt.Errorf("unknown enrollment action %q", action)
	}
}

// SendEnrollmentEmail notifies a student about a roster change. Action is
// "signup" or "unregister".
func (m *Mailer) SendEnrollmentEmail(log *zerolog.Logger, activityName, action, recipientEmail string) error {
	subject, body, err := composeEnrollment(activityName, action)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.From, recipientEmail, subject, body,
	)

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{recipientEmail}, []byte(msg)); err != nil {
		log.Warn().Msgf("Failed to send email to %s: %v", recipientEmail, err)
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().Msgf("Email sent to %s (action: %s)", recipientEmail, action)
	return nil
}
