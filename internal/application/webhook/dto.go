package webhook

import (
	"time"

	"github.com/bizflow/backend/internal/domain/webhook"
	"github.com/google/uuid"
)

// CreateSubscriptionRequest is the input for registering a webhook endpoint
type CreateSubscriptionRequest struct {
	TargetURL string `json:"target_url" binding:"required,url"`
	Events    string `json:"events"`
	Secret    string `json:"secret"`
}

// SubscriptionResponse is the API representation of a subscription.
// The secret is never echoed back.
type SubscriptionResponse struct {
	ID        uuid.UUID `json:"id"`
	TargetURL string    `json:"target_url"`
	Events    string    `json:"events"`
	HasSecret bool      `json:"has_secret"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToSubscriptionResponse converts a domain subscription to a response
func ToSubscriptionResponse(sub *webhook.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:        sub.ID,
		TargetURL: sub.TargetURL,
		Events:    sub.Events,
		HasSecret: sub.Secret != "",
		IsActive:  sub.IsActive,
		CreatedAt: sub.CreatedAt,
		UpdatedAt: sub.UpdatedAt,
	}
}
