package webhook

import (
	"net/url"
	"strings"
	"time"

	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Subscription registers an external endpoint for event notifications.
// Events is a comma-separated list of event names, or "*" to receive all
// events for the tenant.
type Subscription struct {
	shared.TenantAggregateRoot
	TargetURL string
	Events    string
	Secret    string // Optional signing secret sent on delivery
	IsActive  bool
}

// NewSubscription creates a new active subscription
func NewSubscription(tenantID uuid.UUID, targetURL, events, secret string) (*Subscription, error) {
	if err := validateTargetURL(targetURL); err != nil {
		return nil, err
	}
	if strings.TrimSpace(events) == "" {
		events = "*"
	}

	return &Subscription{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TargetURL:           targetURL,
		Events:              events,
		Secret:              secret,
		IsActive:            true,
	}, nil
}

// Matches reports whether this subscription wants the given event.
// Each comma-separated entry is trimmed; "*" matches every event.
func (s *Subscription) Matches(eventName string) bool {
	for _, entry := range strings.Split(s.Events, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "*" || entry == eventName {
			return true
		}
	}
	return false
}

// Activate enables delivery to this subscription
func (s *Subscription) Activate() {
	s.IsActive = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Deactivate disables delivery without deleting the subscription
func (s *Subscription) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// UpdateEvents replaces the subscribed event list
func (s *Subscription) UpdateEvents(events string) error {
	if strings.TrimSpace(events) == "" {
		return shared.NewDomainError("INVALID_EVENTS", "Event list cannot be empty")
	}
	s.Events = events
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

func validateTargetURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return shared.NewDomainError("INVALID_URL", "Target URL cannot be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return shared.NewDomainError("INVALID_URL", "Target URL must be a valid http(s) URL")
	}
	return nil
}
