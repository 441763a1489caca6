package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/engineers-ent/backend-nirman/internal/events"
	"github.com/engineers-ent/backend-nirman/internal/obs"
	"github.com/engineers-ent/backend-nirman/internal/queue"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body.
const SignatureHeader = "X-Nirman-Signature"

// Sign computes the webhook signature for a body.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Scheduler fans domain events out to the worker queue. It satisfies
// events.Notifier; a disabled scheduler is a no-op so the bus never blocks
// on webhook config.
type Scheduler struct {
	Client  *asynq.Client
	Enabled bool
	// Topics restricts delivery; empty means events.DefaultTopics.
	Topics []string
}

func (s *Scheduler) subscribed(topic string) bool {
	topics := s.Topics
	if len(topics) == 0 {
		topics = events.DefaultTopics()
	}
	for _, t := range topics {
		if t == topic {
			return true
		}
	}
	return false
}

func (s *Scheduler) Notify(_ context.Context, evt events.Event) error {
	if !s.Enabled || s.Client == nil {
		return nil
	}
	if !s.subscribed(evt.Topic) {
		return nil
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	task := asynq.NewTask(queue.TaskWebhookDeliver, body)
	if _, err := s.Client.Enqueue(task, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)); err != nil {
		return fmt.Errorf("enqueue webhook: %w", err)
	}
	return nil
}

// Deliverer posts signed event payloads to the configured endpoint. Runs in
// the worker process.
type Deliverer struct {
	URL    string
	Secret []byte
	Client *http.Client
	Logger *zerolog.Logger
}

func (d *Deliverer) httpClient() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// HandleTask processes one webhook:deliver task. Non-2xx responses return an
// error so asynq retries with backoff.
func (d *Deliverer) HandleTask(ctx context.Context, t *asynq.Task) error {
	body := t.Payload()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(d.Secret, body))

	resp, err := d.httpClient().Do(req)
	if err != nil {
		if obs.WebhookDeliveriesTotal != nil {
			obs.WebhookDeliveriesTotal.WithLabelValues("failed").Inc()
		}
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if obs.WebhookDeliveriesTotal != nil {
			obs.WebhookDeliveriesTotal.WithLabelValues("failed").Inc()
		}
		return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	}
	if obs.WebhookDeliveriesTotal != nil {
		obs.WebhookDeliveriesTotal.WithLabelValues("delivered").Inc()
	}
	if d.Logger != nil {
		d.Logger.Info().Str("url", d.URL).Int("status", resp.StatusCode).Msg("webhook_delivered")
	}
	return nil
}
