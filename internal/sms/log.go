package sms

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogGateway prints messages instead of delivering them. Used in dev
// environments where no Twilio credentials are configured.
type LogGateway struct{}

func (LogGateway) Send(_ context.Context, to, body string) (string, error) {
	id := uuid.New().String()
	slog.Info("sms (log gateway)", "to", to, "body", body, "message_id", id)
	return id, nil
}
