package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"

	"coachflow-backend/config"
	"coachflow-backend/pkg/logger"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService sends transactional mail over SMTP.
type EmailService struct {
	host        string
	port        string
	username    string
	password    string
	fromEmail   string
	frontendURL string
	send        sendFunc
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		fromEmail:   cfg.SMTPFromEmail,
		frontendURL: cfg.FrontendURL,
		send:        smtp.SendMail,
	}
}

type linkEmailData struct {
	Name    string
	Heading string
	Intro   string
	Action  string
	Link    string
	Footer  string
}

var linkEmailTemplate = template.Must(template.New("link").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Heading}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2f5d50; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .button { display: inline-block; padding: 12px 24px; background: #2f5d50; color: white; text-decoration: none; border-radius: 4px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>{{.Heading}}</h1></div>
        <div class="content">
            <p>Hi {{.Name}},</p>
            <p>{{.Intro}}</p>
            <p><a class="button" href="{{.Link}}">{{.Action}}</a></p>
            <p>If the button does not work, copy this link into your browser:<br>{{.Link}}</p>
        </div>
        <div class="footer"><p>{{.Footer}}</p></div>
    </div>
</body>
</html>`))

// SendVerificationEmail mails the email-verification link for a new account.
func (s *EmailService) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	return s.sendLink(ctx, to, "Verify your email address", linkEmailData{
		Name:    name,
		Heading: "Welcome to The Katha",
		Intro:   "Please confirm your email address to finish setting up your account.",
		Action:  "Verify email",
		Link:    s.link("/verify-email", token),
		Footer:  "You received this email because an account was created with this address.",
	})
}

// SendPasswordResetEmail mails a password reset link. The link expires after one hour.
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	return s.sendLink(ctx, to, "Reset your password", linkEmailData{
		Name:    name,
		Heading: "Password reset",
		Intro:   "We received a request to reset your password. The link below is valid for one hour.",
		Action:  "Reset password",
		Link:    s.link("/reset-password", token),
		Footer:  "If you did not request a reset you can ignore this email.",
	})
}

func (s *EmailService) link(path, token string) string {
	return s.frontendURL + path + "?token=" + url.QueryEscape(token)
}

func (s *EmailService) sendLink(ctx context.Context, to, subject string, data linkEmailData) error {
	if !s.IsConfigured() {
		logger.Log.WarnContext(ctx, "SMTP not configured, email skipped", "subject", subject)
		return nil
	}

	var body bytes.Buffer
	if err := linkEmailTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		to,
		subject,
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
