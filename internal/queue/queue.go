package queue

import (
	"github.com/hibiken/asynq"
)

// Task types routed through the worker.
const (
	TaskWebhookDeliver = "webhook:deliver"
)

// NewClient builds an asynq client from a Redis URL.
func NewClient(redisURL string) (*asynq.Client, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, err
	}
	return asynq.NewClient(opt), nil
}

// NewServer builds an asynq worker server from a Redis URL.
func NewServer(redisURL string, concurrency int) (*asynq.Server, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, err
	}
	if concurrency < 1 {
		concurrency = 5
	}
	return asynq.NewServer(opt, asynq.Config{Concurrency: concurrency}), nil
}
