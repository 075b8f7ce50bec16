package model_test

import (
	"testing"

	"github.com/m-mizutani/mirror-status/pkg/domain/model"
)

func TestWebhookEvent_IsSupportedEvent(t *testing.T) {
	tests := []struct {
		name     string
		event    *model.WebhookEvent
		expected bool
	}{
		{
			name: "Push - supported",
			event: &model.WebhookEvent{
				Type: model.EventTypePush,
				Ref:  "refs/heads/master",
			},
			expected: true,
		},
		{
			name: "Status success - supported",
			event: &model.WebhookEvent{
				Type:  model.EventTypeStatus,
				State: "success",
			},
			expected: true,
		},
		{
			name: "Status error - supported",
			event: &model.WebhookEvent{
				Type:  model.EventTypeStatus,
				State: "error",
			},
			expected: true,
		},
		{
			name: "Status pending - not supported",
			event: &model.WebhookEvent{
				Type:  model.EventTypeStatus,
				State: "pending",
			},
			expected: false,
		},
		{
			name: "Ping - not supported",
			event: &model.WebhookEvent{
				Type: model.EventTypePing,
			},
			expected: false,
		},
		{
			name: "Unknown event type",
			event: &model.WebhookEvent{
				Type: model.EventTypeUnknown,
			},
			expected: false,
		},
		{
			name: "Different event type",
			event: &model.WebhookEvent{
				Type: model.WebhookEventType("issues"),
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.event.IsSupportedEvent()
			if got != tt.expected {
				t.Errorf("IsSupportedEvent() = %v, want %v", got, tt.expected)
			}
		})
	}
}
