package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const eventQueue = "MatchEvents"

// MatchLoadedEvent announces one ingested match to downstream consumers.
type MatchLoadedEvent struct {
	MatchID    string   `json:"match_id"`
	Date       string   `json:"date"`
	Venue      string   `json:"venue"`
	Teams      []string `json:"teams"`
	Deliveries int      `json:"deliveries"`
}

// Publisher emits load events. NewPublisher returns a no-op when no
// broker URL is configured.
type Publisher interface {
	MatchLoaded(ev MatchLoadedEvent) error
	Close() error
}

// NewPublisher connects to RabbitMQ when url is set.
func NewPublisher(url string) (Publisher, error) {
	if url == "" {
		return NopPublisher{}, nil
	}
	return newAMQPPublisher(url)
}

// NopPublisher drops events; used when AMQP_URL is unset.
type NopPublisher struct{}

func (NopPublisher) MatchLoaded(MatchLoadedEvent) error { return nil }
func (NopPublisher) Close() error                       { return nil }

type amqpPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func newAMQPPublisher(url string) (*amqpPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	if _, err := ch.QueueDeclare(eventQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring queue %s: %w", eventQueue, err)
	}

	return &amqpPublisher{conn: conn, ch: ch}, nil
}

func (p *amqpPublisher) MatchLoaded(ev MatchLoadedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(ctx, "", eventQueue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (p *amqpPublisher) Close() error {
	p.ch.Close()
	return p.conn.Close()
}
