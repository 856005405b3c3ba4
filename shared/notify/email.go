package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"sync"

	"forecast-agent/shared/config"
)

var emailTemplate = template.Must(template.New("email").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
        .error { background-color: #FDECEA; padding: 15px; border-radius: 8px; border-left: 4px solid #F44336; }
        .footer { text-align: center; color: #666; font-size: 12px; margin-top: 30px; }
    </style>
</head>
<body>
    <div class="error">
        <h2>{{.Title}}</h2>
        <p>{{.Message}}</p>
        <p><em>{{.Time.Format "Monday, January 2, 2006 at 3:04 PM MST"}}</em></p>
    </div>
    <div class="footer">
        <p>Generated by Hourly Forecast Agent • Weather data from Open-Meteo</p>
    </div>
</body>
</html>
`))

// emailQueueSize bounds the notifications waiting for the SMTP worker
const emailQueueSize = 16

// EmailNotifier mails Error notifications from a single worker. Info
// notifications are ignored; when the queue is full new ones are dropped.
type EmailNotifier struct {
	config *config.EmailConfig
	send   func(subject, body string) error

	mu     sync.Mutex
	closed bool
	queue  chan Notification
	done   chan struct{}
}

func NewEmailNotifier(cfg *config.EmailConfig) *EmailNotifier {
	e := &EmailNotifier{
		config: cfg,
		queue:  make(chan Notification, emailQueueSize),
		done:   make(chan struct{}),
	}
	e.send = e.sendViaSMTP
	go e.run()
	return e
}

// Notify queues the notification; delivery failures are only logged
func (e *EmailNotifier) Notify(severity Severity, title, message string) {
	if severity != SeverityError {
		return
	}

	n := newNotification(severity, title, message)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		log.Printf("Warning: email notifier closed, dropping notification %s", n.ID)
		return
	}
	select {
	case e.queue <- n:
	default:
		log.Printf("Warning: email queue full, dropping notification %s", n.ID)
	}
}

// Close stops accepting notifications and waits until the queued ones are sent
func (e *EmailNotifier) Close() error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()

	<-e.done
	return nil
}

func (e *EmailNotifier) run() {
	defer close(e.done)
	for n := range e.queue {
		if err := e.SendNotification(n); err != nil {
			log.Printf("Warning: failed to email notification %s: %v", n.ID, err)
		}
	}
}

func (e *EmailNotifier) SendNotification(n Notification) error {
	body, err := generateEmailBody(n)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	subject := fmt.Sprintf("⚠️ Hourly Forecast: %s", n.Title)
	return e.send(subject, body)
}

func (e *EmailNotifier) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", e.config.Username, e.config.Password, e.config.SMTPServer)

	to := []string{e.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, e.config.ToEmail, e.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", e.config.SMTPServer, e.config.SMTPPort)
	return smtp.SendMail(addr, auth, e.config.FromEmail, to, msg)
}

func generateEmailBody(n Notification) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
