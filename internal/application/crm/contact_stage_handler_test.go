package crm

import (
	"context"
	"testing"

	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/bizflow/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedStageHandler() (*ContactStageChangedHandler, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewContactStageChangedHandler(zap.New(core)), logs
}

func TestContactStageChangedHandler_Handle(t *testing.T) {
	t.Run("logs conversion when contact reaches CUSTOMER", func(t *testing.T) {
		handler, logs := newObservedStageHandler()

		contact, err := crm.NewContact(uuid.New(), "Ada Lovelace", "ada@example.com", "")
		require.NoError(t, err)
		evt := crm.NewContactStageChangedEvent(contact, crm.StageSQL, crm.StageCustomer)

		require.NoError(t, handler.Handle(context.Background(), evt))

		entries := logs.FilterMessage("contact converted to customer").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.InfoLevel, entries[0].Level)
	})

	t.Run("logs ordinary funnel moves at debug", func(t *testing.T) {
		handler, logs := newObservedStageHandler()

		contact, err := crm.NewContact(uuid.New(), "Ada Lovelace", "ada@example.com", "")
		require.NoError(t, err)
		evt := crm.NewContactStageChangedEvent(contact, crm.StageLead, crm.StageMQL)

		require.NoError(t, handler.Handle(context.Background(), evt))

		entries := logs.FilterMessage("contact moved in the funnel").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.DebugLevel, entries[0].Level)
	})

	t.Run("rejects events of another type", func(t *testing.T) {
		handler, _ := newObservedStageHandler()

		contact, err := crm.NewContact(uuid.New(), "Ada Lovelace", "ada@example.com", "")
		require.NoError(t, err)

		err = handler.Handle(context.Background(), crm.NewContactCreatedEvent(contact))

		assert.Error(t, err)
	})
}

func TestContactStageChangedHandler_ReceivesAggregateEventsThroughBus(t *testing.T) {
	handler, logs := newObservedStageHandler()
	bus := event.NewInMemoryEventBus(nil)
	bus.Subscribe(handler)

	contact, err := crm.NewContact(uuid.New(), "Ada Lovelace", "ada@example.com", "")
	require.NoError(t, err)
	contact.ClearDomainEvents()
	require.NoError(t, contact.TransitionStage(crm.StageMQL))

	require.NoError(t, bus.Publish(context.Background(), contact.GetDomainEvents()...))
	contact.ClearDomainEvents()

	assert.Len(t, logs.FilterMessage("contact moved in the funnel").All(), 1)
}
