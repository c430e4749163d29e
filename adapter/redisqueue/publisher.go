// Package redisqueue announces newly stored articles on a Redis list so
// downstream consumers can pick them up.
package redisqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"newsingest/domain"
)

const DefaultQueue = "articles:new"

type message struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type Publisher struct {
	client *redis.Client
	queue  string
}

func NewPublisher(client *redis.Client, queue string) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Publisher{client: client, queue: queue}
}

// Connect dials addr and checks the connection with PING.
func Connect(ctx context.Context, addr, queue string) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewPublisher(client, queue), nil
}

// Publish pushes the article as JSON onto the head of the queue.
func (p *Publisher) Publish(ctx context.Context, a domain.Article) error {
	payload, err := json.Marshal(message{
		ID:          a.ID,
		Title:       a.Title,
		Link:        a.Link,
		Source:      a.Source,
		PublishedAt: a.PublishedAt,
	})
	if err != nil {
		return fmt.Errorf("encode article %s: %w", a.ID, err)
	}
	if err := p.client.LPush(ctx, p.queue, payload).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", p.queue, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.client.Close()
}
