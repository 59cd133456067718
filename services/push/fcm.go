package push

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// Sender delivers a mobile push to a set of device tokens. Implementations
// are best-effort; callers log and move on when Send fails.
type Sender interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

type fcmSender struct {
	client *messaging.Client
}

// NewFCMSender wraps a Firebase messaging client. A nil client yields a nil
// Sender, which callers treat as push disabled.
func NewFCMSender(client *messaging.Client) Sender {
	if client == nil {
		return nil
	}
	return &fcmSender{client: client}
}

// Send pushes to each token individually; the first failure is returned
// after the remaining tokens were still attempted.
func (s *fcmSender) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	var firstErr error
	for _, token := range tokens {
		msg := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}
		if _, err := s.client.Send(ctx, msg); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("fcm send failed for token %s: %w", token, err)
		}
	}
	return firstErr
}
