package notify

import (
	"context"
	"log"
)

// LogMailer writes deliveries to the process log instead of sending
// mail. It is the default mailer until an SMTP relay is configured.
type LogMailer struct {
	logger *log.Logger
}

// NewLogMailer constructs a log-backed mailer.
func NewLogMailer(logger *log.Logger) *LogMailer {
	if logger == nil {
		logger = log.Default()
	}
	return &LogMailer{logger: logger}
}

// Send logs the message instead of delivering it.
func (m *LogMailer) Send(_ context.Context, to string, subject string, body string) error {
	m.logger.Printf("mail to=%s subject=%q body=%q", to, subject, body)
	return nil
}
