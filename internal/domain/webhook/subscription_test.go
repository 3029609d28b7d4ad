package webhook

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubscription(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active subscription", func(t *testing.T) {
		sub, err := NewSubscription(tenantID, "https://example.com/hook", "order.created", "s3cret")

		require.NoError(t, err)
		assert.True(t, sub.IsActive)
		assert.Equal(t, "order.created", sub.Events)
		assert.Equal(t, tenantID, sub.TenantID)
	})

	t.Run("defaults empty event list to wildcard", func(t *testing.T) {
		sub, err := NewSubscription(tenantID, "https://example.com/hook", "  ", "")

		require.NoError(t, err)
		assert.Equal(t, "*", sub.Events)
	})

	t.Run("rejects non-http URL", func(t *testing.T) {
		sub, err := NewSubscription(tenantID, "ftp://example.com/hook", "*", "")

		assert.Error(t, err)
		assert.Nil(t, sub)
	})

	t.Run("rejects empty URL", func(t *testing.T) {
		sub, err := NewSubscription(tenantID, "", "*", "")

		assert.Error(t, err)
		assert.Nil(t, sub)
	})
}

func TestSubscriptionMatches(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name   string
		events string
		event  string
		want   bool
	}{
		{"exact match", "order.created", "order.created", true},
		{"no match", "order.created", "order.completed", false},
		{"wildcard matches everything", "*", "contact.updated", true},
		{"match within comma list", "order.created,order.completed", "order.completed", true},
		{"list miss", "order.created,order.completed", "order.cancelled", false},
		{"entries are trimmed", " order.created , order.completed ", "order.created", true},
		{"wildcard within list", "contact.created, *", "order.created", true},
		{"prefix is not a match", "order.created", "order.created.v2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := NewSubscription(tenantID, "https://example.com/hook", tt.events, "")
			require.NoError(t, err)

			assert.Equal(t, tt.want, sub.Matches(tt.event))
		})
	}
}

func TestSubscriptionActivation(t *testing.T) {
	tenantID := uuid.New()
	sub, err := NewSubscription(tenantID, "https://example.com/hook", "*", "")
	require.NoError(t, err)

	sub.Deactivate()
	assert.False(t, sub.IsActive)

	sub.Activate()
	assert.True(t, sub.IsActive)
}
