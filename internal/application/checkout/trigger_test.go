package checkout

import (
	"testing"

	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVIPScoreRule(t *testing.T) {
	tenantID := uuid.New()
	rule := VIPScoreRule{Threshold: 30}

	t.Run("fires at threshold", func(t *testing.T) {
		contact, err := crm.NewContact(tenantID, "Alice", "alice@example.com", "")
		require.NoError(t, err)
		contact.AddScore(30)

		tag, fired := rule.Evaluate(contact)
		assert.True(t, fired)
		assert.Equal(t, "vip", tag)
	})

	t.Run("silent below threshold", func(t *testing.T) {
		contact, err := crm.NewContact(tenantID, "Bob", "bob@example.com", "")
		require.NoError(t, err)
		contact.AddScore(29)

		_, fired := rule.Evaluate(contact)
		assert.False(t, fired)
	})
}

func TestTriggerEvaluator(t *testing.T) {
	tenantID := uuid.New()
	evaluator := NewTriggerEvaluator(VIPScoreRule{Threshold: 10})

	contact, err := crm.NewContact(tenantID, "Alice", "alice@example.com", "")
	require.NoError(t, err)
	contact.AddScore(15)

	tags := evaluator.Evaluate(contact)
	assert.True(t, HasTag(tags, "vip"))
	assert.False(t, HasTag(tags, "churn-risk"))
}
