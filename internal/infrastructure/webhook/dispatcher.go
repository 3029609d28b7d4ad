package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	webhookapp "github.com/bizflow/backend/internal/application/webhook"
	"github.com/bizflow/backend/internal/domain/webhook"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds dispatcher tuning knobs
type Config struct {
	Workers        int
	QueueSize      int
	RequestTimeout time.Duration
}

// DefaultConfig returns the dispatcher defaults
func DefaultConfig() Config {
	return Config{
		Workers:        8,
		QueueSize:      256,
		RequestTimeout: 10 * time.Second,
	}
}

// delivery is one HTTP POST to one subscriber endpoint
type delivery struct {
	tenantID     uuid.UUID
	eventName    string
	targetURL    string
	secret       string
	body         []byte
	subscription uuid.UUID
}

// Dispatcher fans events out to webhook subscribers over a bounded worker
// pool. Delivery is fire-and-forget: a slow or failing endpoint only loses
// its own notifications, never blocks the caller, and is never retried.
type Dispatcher struct {
	subscriptions webhook.SubscriptionRepository
	client        *http.Client
	logger        *zap.Logger
	queue         chan delivery
	workers       int
	stopChan      chan struct{}
	wg            sync.WaitGroup
	startOnce     sync.Once
	stopOnce      sync.Once
}

// NewDispatcher creates a dispatcher. Call Start before triggering.
func NewDispatcher(subscriptions webhook.SubscriptionRepository, cfg Config, logger *zap.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		subscriptions: subscriptions,
		client:        &http.Client{Timeout: cfg.RequestTimeout},
		logger:        logger,
		queue:         make(chan delivery, cfg.QueueSize),
		stopChan:      make(chan struct{}),
		workers:       cfg.Workers,
	}
}

// Trigger loads the tenant's active subscriptions, filters them against the
// event name, and enqueues one delivery per match. The envelope is built
// once per event so every subscriber sees the same timestamp.
func (d *Dispatcher) Trigger(tenantID uuid.UUID, eventName string, payload map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	subs, err := d.subscriptions.FindActiveForTenant(ctx, tenantID)
	if err != nil {
		d.logger.Error("failed to load webhook subscriptions",
			zap.String("tenant_id", tenantID.String()),
			zap.String("event", eventName),
			zap.Error(err),
		)
		return
	}

	matched := make([]webhook.Subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.Matches(eventName) {
			matched = append(matched, sub)
		}
	}
	if len(matched) == 0 {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"event":     eventName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"payload":   payload,
	})
	if err != nil {
		d.logger.Error("failed to encode webhook payload",
			zap.String("event", eventName),
			zap.Error(err),
		)
		return
	}

	for _, sub := range matched {
		del := delivery{
			tenantID:     tenantID,
			eventName:    eventName,
			targetURL:    sub.TargetURL,
			secret:       sub.Secret,
			body:         body,
			subscription: sub.ID,
		}
		select {
		case d.queue <- del:
		default:
			// Queue full. Dropping is acceptable: delivery carries no guarantee.
			d.logger.Warn("webhook queue full, dropping delivery",
				zap.String("event", eventName),
				zap.String("target_url", sub.TargetURL),
			)
		}
	}
}

// Start launches the worker pool
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.workerLoop()
		}
		d.logger.Info("webhook dispatcher started", zap.Int("workers", d.workers))
	})
}

// Stop drains in-flight deliveries and stops the workers. Queued deliveries
// that have not been picked up yet are discarded.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopChan)
		d.wg.Wait()
		d.logger.Info("webhook dispatcher stopped")
	})
}

func (d *Dispatcher) workerLoop() {
	defer d.wg.Done()

	for {
		select {
		case <-d.stopChan:
			return
		case del := <-d.queue:
			d.deliver(del)
		}
	}
}

// deliver performs one POST. Failures are logged and dropped; there is no
// retry and no effect on sibling deliveries.
func (d *Dispatcher) deliver(del delivery) {
	req, err := http.NewRequest(http.MethodPost, del.targetURL, bytes.NewReader(del.body))
	if err != nil {
		d.logger.Error("failed to build webhook request",
			zap.String("target_url", del.targetURL),
			zap.Error(err),
		)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Event", del.eventName)
	if del.secret != "" {
		req.Header.Set("X-Webhook-Signature", del.secret)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("webhook delivery failed",
			zap.String("event", del.eventName),
			zap.String("target_url", del.targetURL),
			zap.String("subscription_id", del.subscription.String()),
			zap.Error(err),
		)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.logger.Warn("webhook endpoint returned non-2xx",
			zap.String("event", del.eventName),
			zap.String("target_url", del.targetURL),
			zap.Int("status", resp.StatusCode),
		)
		return
	}

	d.logger.Debug("webhook delivered",
		zap.String("event", del.eventName),
		zap.String("target_url", del.targetURL),
	)
}

// Ensure Dispatcher implements the application notifier
var _ webhookapp.Notifier = (*Dispatcher)(nil)
