package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/engineers-ent/backend-nirman/internal/events"
	"github.com/engineers-ent/backend-nirman/internal/obs"
	"github.com/engineers-ent/backend-nirman/internal/queue"
)

func TestDelivererSignsPayload(t *testing.T) {
	secret := []byte("webhook-secret")
	var gotSig string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get(SignatureHeader)
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	evt := events.Event{
		ID:          "e1",
		Topic:       events.TopicOrderCreated,
		AggregateID: "o1",
		Payload:     json.RawMessage(`{"orderNo":"ORD-1001"}`),
		OccurredAt:  time.Date(2024, 5, 24, 10, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(evt)
	require.NoError(t, err)

	d := &Deliverer{URL: srv.URL, Secret: secret}
	err = d.HandleTask(context.Background(), asynq.NewTask(queue.TaskWebhookDeliver, body))
	require.NoError(t, err)

	require.Equal(t, Sign(secret, body), gotSig)

	var delivered events.Event
	require.NoError(t, json.Unmarshal(gotBody, &delivered))
	require.Equal(t, "e1", delivered.ID)
	require.Equal(t, events.TopicOrderCreated, delivered.Topic)
}

func TestDelivererRetriesOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := &Deliverer{URL: srv.URL, Secret: []byte("s")}
	err := d.HandleTask(context.Background(), asynq.NewTask(queue.TaskWebhookDeliver, []byte(`{}`)))
	require.Error(t, err)
}

func TestDisabledSchedulerIsNoop(t *testing.T) {
	s := &Scheduler{Enabled: false}
	err := s.Notify(context.Background(), events.Event{ID: "e1", Topic: events.TopicOrderCreated})
	require.NoError(t, err)
}

func TestDelivererCountsOutcomes(t *testing.T) {
	obs.MustRegisterDomainMetrics("nirman", prometheus.NewRegistry())
	deliveredBefore := testutil.ToFloat64(obs.WebhookDeliveriesTotal.WithLabelValues("delivered"))
	failedBefore := testutil.ToFloat64(obs.WebhookDeliveriesTotal.WithLabelValues("failed"))

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	d := &Deliverer{URL: ok.URL, Secret: []byte("s")}
	require.NoError(t, d.HandleTask(context.Background(), asynq.NewTask(queue.TaskWebhookDeliver, []byte(`{}`))))

	d.URL = bad.URL
	require.Error(t, d.HandleTask(context.Background(), asynq.NewTask(queue.TaskWebhookDeliver, []byte(`{}`))))

	require.Equal(t, deliveredBefore+1, testutil.ToFloat64(obs.WebhookDeliveriesTotal.WithLabelValues("delivered")))
	require.Equal(t, failedBefore+1, testutil.ToFloat64(obs.WebhookDeliveriesTotal.WithLabelValues("failed")))
}

func TestSchedulerTopicFilter(t *testing.T) {
	s := &Scheduler{Enabled: true, Topics: []string{events.TopicOrderCreated}}

	require.True(t, s.subscribed(events.TopicOrderCreated))
	require.False(t, s.subscribed(events.TopicProductUpdated))

	// an unsubscribed topic is dropped before the client is touched
	err := s.Notify(context.Background(), events.Event{ID: "e1", Topic: events.TopicProductUpdated})
	require.NoError(t, err)

	defaults := &Scheduler{Enabled: true}
	for _, topic := range events.DefaultTopics() {
		require.True(t, defaults.subscribed(topic))
	}
	require.False(t, defaults.subscribed("order.archived"))
}
