package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailService provides email delivery functionality
type EmailService struct {
	smtpHost     string
	smtpPort     int
	smtpUsername string
	smtpPassword string
}

// NewEmailService creates a new EmailService
func NewEmailService(smtpHost string, smtpPort int, smtpUsername, smtpPassword string) *EmailService {
	return &EmailService{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUsername: smtpUsername,
		smtpPassword: smtpPassword,
	}
}

// SendEmail sends an HTML email with TLS
func (s *EmailService) SendEmail(from, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(from, "Escalas"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.smtpHost, s.smtpPort, s.smtpUsername, s.smtpPassword)

	return d.DialAndSend(m)
}

// GenerateNotificationEmailHTML renders the fallback notification email sent
// when the user has no registered push endpoint. Inline styles only, for
// client compatibility.
func (s *EmailService) GenerateNotificationEmailHTML(fullName, title, body, targetURL string) string {
	linkRow := ""
	if targetURL != "" {
		linkRow = fmt.Sprintf(`
								<tr>
									<td align="center" style="padding-top: 24px;">
										<a href="%s" style="display: inline-block; padding: 12px 28px; background-color: #062D49; color: #ffffff; text-decoration: none; border-radius: 6px; font-size: 15px; font-weight: 600;">Ver escala</a>
									</td>
								</tr>`, targetURL)
	}

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" lang="pt-BR">
<head>
	<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1.0" />
	<title>%s</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, Helvetica, sans-serif; background-color: #f7f9fc;">
	<table border="0" cellpadding="0" cellspacing="0" width="100%%" style="border-collapse: collapse;">
		<tr>
			<td style="padding: 40px 0;">
				<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse: collapse; background-color: #062D49; border-radius: 8px 8px 0 0;">
					<tr>
						<td align="center" style="padding: 24px 0; color: #ffffff;">
							<h1 style="margin: 0; font-size: 24px; font-weight: 700;">%s</h1>
						</td>
					</tr>
				</table>
				<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse: collapse; background-color: #ffffff; box-shadow: 0 4px 15px rgba(0, 0, 0, 0.08); border-radius: 0 0 8px 8px;">
					<tr>
						<td style="padding: 32px 30px;">
							<table border="0" cellpadding="0" cellspacing="0" width="100%%" style="border-collapse: collapse;">
								<tr>
									<td style="color: #333333; font-size: 16px; line-height: 1.6;">
										<p style="margin-top: 0; margin-bottom: 16px;">Olá, <strong>%s</strong>!</p>
										<p style="margin: 0;">%s</p>
									</td>
								</tr>%s
							</table>
						</td>
					</tr>
				</table>
			</td>
		</tr>
	</table>
</body>
</html>`, title, title, fullName, body, linkRow)
}

// EmailSvc is set up at startup from configuration.
var EmailSvc *EmailService
