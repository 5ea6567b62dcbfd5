package service

import "context"

// SmsGateway delivers a message to a phone number and returns the provider's
// message id. Injected into the orchestrator; there is no process-wide client.
type SmsGateway interface {
	Send(ctx context.Context, to, body string) (messageID string, err error)
}
