package mail

import (
	"context"

	"go.uber.org/zap"
)

// LogSender is the explicit degradation path for environments without SMTP
// credentials (local dev, preview deploys). Every "send" is logged and
// reported as successful so sequencing state still advances. Selected at
// wiring time by config, never silently.
type LogSender struct {
	Logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{Logger: logger}
}

func (s *LogSender) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	preview := textBody
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}

	s.Logger.Warn("smtp not configured, logging email instead",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", preview))
	return nil
}
