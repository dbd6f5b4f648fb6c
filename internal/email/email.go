package email

import (
	"bytes"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"

	"safetrack/internal/config"
)

// Service handles email operations
type Service struct {
	config *config.EmailConfig
}

// NewService creates a new email service
func NewService(cfg *config.EmailConfig) *Service {
	return &Service{config: cfg}
}

// InspectionAlert carries the template data for a critical-failure alert
type InspectionAlert struct {
	ChecklistName string
	FailureCount  int
	Reference     string // stable human-readable reference, e.g. INS-42
	Link          string // deep link into the inspection
}

// SendInspectionFailedAlert notifies one recipient that an inspection was
// submitted with critical failures
func (s *Service) SendInspectionFailedAlert(to string, alert InspectionAlert) error {
	subject := fmt.Sprintf("Critical inspection failures - %s", alert.Reference)

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Inspection Failed</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #d9534f;">Critical Inspection Failures</h2>
        <p>Inspection <strong>%s</strong> on checklist <strong>%s</strong> was submitted
        with <strong>%d</strong> critical failure(s).</p>
        <p>Corrective actions have been created and require follow-up.</p>
        <div style="text-align: center; margin: 30px 0;">
            <a href="%s" style="background-color: #d9534f; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">View Inspection</a>
        </div>
        <p>If the button doesn't work, you can also copy and paste the following link into your browser:</p>
        <p style="word-break: break-all; color: #d9534f;">%s</p>
        <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
        <p style="color: #999; font-size: 12px;">This is an automated email. Please do not reply.</p>
    </div>
</body>
</html>
`, alert.Reference, alert.ChecklistName, alert.FailureCount, alert.Link, alert.Link)

	return s.sendEmail(to, subject, body)
}

// SendOverdueActionSummary sends a summary of overdue corrective actions
func (s *Service) SendOverdueActionSummary(to string, descriptions []string) error {
	subject := fmt.Sprintf("Overdue corrective actions (%d)", len(descriptions))

	var list bytes.Buffer
	for _, d := range descriptions {
		list.WriteString(fmt.Sprintf("<li>%s</li>", d))
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Overdue Corrective Actions</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #f0ad4e;">Overdue Corrective Actions</h2>
        <p>The following corrective actions are past their target date and still open:</p>
        <ul>%s</ul>
        <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
        <p style="color: #999; font-size: 12px;">This is an automated email. Please do not reply.</p>
    </div>
</body>
</html>
`, list.String())

	return s.sendEmail(to, subject, body)
}

// SendStaleInspectionReminder reminds an inspector about an open inspection
func (s *Service) SendStaleInspectionReminder(to, checklistName, reference string) error {
	subject := fmt.Sprintf("Reminder: unfinished inspection %s", reference)

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Unfinished Inspection</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #4a90e2;">Unfinished Inspection</h2>
        <p>Your inspection <strong>%s</strong> on checklist <strong>%s</strong> was started
        but never submitted. Please complete and submit it, or contact your safety manager
        if it is no longer needed.</p>
        <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
        <p style="color: #999; font-size: 12px;">This is an automated email. Please do not reply.</p>
    </div>
</body>
</html>
`, reference, checklistName)

	return s.sendEmail(to, subject, body)
}

// sendEmail delivers one message over SMTP
func (s *Service) sendEmail(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.config.SMTPFrom
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message bytes.Buffer
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := net.JoinHostPort(s.config.SMTPHost, s.config.SMTPPort)
	slog.Debug("Attempting to connect to SMTP server", "address", addr)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func(conn net.Conn) {
		if err := conn.Close(); err != nil {
			slog.Error("Failed to close SMTP connection", "error", err)
		}
	}(conn)

	client, err := smtp.NewClient(conn, s.config.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func(client *smtp.Client) {
		if err := client.Close(); err != nil {
			slog.Error("Failed to close SMTP client", "error", err)
		}
	}(client)

	// No authentication for local development relays (e.g. Mailpit)
	if s.config.SMTPUsername != "" && s.config.SMTPPassword != "" {
		auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
		_ = client.Auth(auth)
	}

	if err := client.Mail(s.config.SMTPFrom); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := writer.Write(message.Bytes()); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
