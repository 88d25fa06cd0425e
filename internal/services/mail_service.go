package services

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// MailService sends transactional mail over SMTP with STARTTLS.
type MailService interface {
	SendContactMessage(fromName, fromEmail, message string) error
	SendPasswordReset(toEmail, resetLink string) error
	SendRenewalReminder(toEmail, memberName, planName string, endDate time.Time) error
}

type SMTPConfig struct {
	Host            string
	Port            string
	Username        string
	Password        string
	FromEmail       string
	ContactReceiver string
}

type smtpMailService struct {
	cfg SMTPConfig
}

func NewSMTPMailService(cfg SMTPConfig) MailService {
	return &smtpMailService{cfg: cfg}
}

func (s *smtpMailService) send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + s.cfg.FromEmail,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := s.cfg.Host + ":" + s.cfg.Port
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// SendContactMessage forwards a contact-form submission to the configured
// receiver inbox. The visitor's address goes in the body, not the envelope,
// so SPF stays intact.
func (s *smtpMailService) SendContactMessage(fromName, fromEmail, message string) error {
	subject := fmt.Sprintf("Contact form: message from %s", fromName)
	body := fmt.Sprintf("Name: %s\nEmail: %s\n\n%s", fromName, fromEmail, message)
	return s.send(s.cfg.ContactReceiver, subject, body)
}

func (s *smtpMailService) SendPasswordReset(toEmail, resetLink string) error {
	subject := "Reset your password"
	body := fmt.Sprintf(
		"We received a request to reset your password.\n\n"+
			"Open the link below to choose a new one. The link expires in 30 minutes.\n\n%s\n\n"+
			"If you did not request this, you can ignore this email.",
		resetLink)
	return s.send(toEmail, subject, body)
}

func (s *smtpMailService) SendRenewalReminder(toEmail, memberName, planName string, endDate time.Time) error {
	subject := "Your membership is about to expire"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s plan expires on %s. Renew now to keep your access without interruption.\n",
		memberName, planName, endDate.Format("2006-01-02"))
	return s.send(toEmail, subject, body)
}
