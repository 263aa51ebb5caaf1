package mq

import (
	"context"
	"fmt"
	"time"

	"collabnote/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NoteEventsQueue carries models.NoteEventMsg for every note mutation.
const NoteEventsQueue = "note_events"

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// New dials RabbitMQ and opens a channel.
func New(cfg *config.Config) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.AMQPURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	return &RabbitMQ{
		conn:    conn,
		channel: ch,
	}, nil
}

func (r *RabbitMQ) declare(queue string) error {
	_, err := r.channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return nil
}

// Publish sends body to queue as a persistent JSON message.
func (r *RabbitMQ) Publish(queue string, body []byte) error {
	if err := r.declare(queue); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.channel.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// Consume starts an auto-ack consumer on queue.
func (r *RabbitMQ) Consume(queue string) (<-chan amqp.Delivery, error) {
	if err := r.declare(queue); err != nil {
		return nil, err
	}
	return r.channel.Consume(queue, "", true, false, false, false, nil)
}

func (r *RabbitMQ) Close() {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}
