package services

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendTaskAssignedEmail(to, name, taskTitle string) error
	SendCommentEmail(to, name, taskTitle, preview string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
	dryRun bool
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string, dryRun bool) EmailService {
	return &emailService{
		dialer: gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword),
		from:   fromEmail,
		dryRun: dryRun,
	}
}

func (s *emailService) SendTaskAssignedEmail(to, name, taskTitle string) error {
	body := fmt.Sprintf(`
		<h3>You have a new task</h3>
		<p>Hi %s,</p>
		<p>The task <strong>%s</strong> has been assigned to you.</p>
	`, name, taskTitle)
	return s.send(to, "Task assigned: "+taskTitle, body)
}

func (s *emailService) SendCommentEmail(to, name, taskTitle, preview string) error {
	body := fmt.Sprintf(`
		<h3>New comment</h3>
		<p>Hi %s,</p>
		<p>There is a new comment on <strong>%s</strong>:</p>
		<blockquote>%s</blockquote>
	`, name, taskTitle, preview)
	return s.send(to, "New comment on "+taskTitle, body)
}

func (s *emailService) send(to, subject, body string) error {
	if s.dryRun {
		log.Printf("[email][dry-run] to=%s subject=%q", to, subject)
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %q to %s: %w", subject, to, err)
	}
	return nil
}
