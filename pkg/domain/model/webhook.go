package model

import "time"

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypePush    WebhookEventType = "push"
	EventTypeStatus  WebhookEventType = "status"
	EventTypePing    WebhookEventType = "ping"
	EventTypeUnknown WebhookEventType = "unknown"
)

// WebhookEvent represents a webhook event received from GitHub
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Repository string           // Full name, "owner/name"
	Ref        string           // Pushed ref or commit SHA of the status
	State      string           // Commit status state, status events only
	Sender     string           // Sender username
	ReceivedAt time.Time        // Time when the event was received
}

// IsSupportedEvent checks if the event can change the published status
func (e *WebhookEvent) IsSupportedEvent() bool {
	switch e.Type {
	case EventTypePush:
		return true
	case EventTypeStatus:
		// pending statuses are followed by a terminal one
		return e.State != "pending"
	default:
		return false
	}
}
