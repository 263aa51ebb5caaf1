package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"collabnote/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Embedder turns note text into a vector.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Indexer stores and removes note vectors.
type Indexer interface {
	Upsert(ctx context.Context, todoID uint, vector []float32, ownerID uint) error
	Delete(ctx context.Context, todoID uint) error
}

type Source interface {
	Consume(queue string) (<-chan amqp.Delivery, error)
}

// Consumer keeps the semantic index in step with note mutations.
type Consumer struct {
	source   Source
	embedder Embedder
	index    Indexer
}

func NewConsumer(source Source, embedder Embedder, index Indexer) *Consumer {
	return &Consumer{
		source:   source,
		embedder: embedder,
		index:    index,
	}
}

// Start launches the consumers; it returns immediately.
func (c *Consumer) Start(ctx context.Context) {
	go c.consumeNoteEvents(ctx)
}

func (c *Consumer) consumeNoteEvents(ctx context.Context) {
	msgs, err := c.source.Consume(NoteEventsQueue)
	if err != nil {
		zap.L().Error("failed to start note event consumer", zap.Error(err))
		return
	}

	zap.L().Info("waiting for note events")
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				zap.L().Warn("note event channel closed")
				return
			}
			if err := c.HandleNoteEvent(ctx, d.Body); err != nil {
				zap.L().Error("note event handling failed", zap.Error(err))
			}
		}
	}
}

// HandleNoteEvent applies one note event to the index.
func (c *Consumer) HandleNoteEvent(ctx context.Context, body []byte) error {
	var msg models.NoteEventMsg
	if err := json.Unmarshal(body, &msg); err != nil {
		// malformed messages are dropped
		return fmt.Errorf("unmarshal note event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch msg.Action {
	case models.NoteCreated, models.NoteUpdated:
		text := fmt.Sprintf("%s\n%s", msg.Title, msg.Description)
		vec, err := c.embedder.GetEmbedding(ctx, text)
		if err != nil {
			return fmt.Errorf("embed todo %d: %w", msg.TodoID, err)
		}
		if err := c.index.Upsert(ctx, msg.TodoID, vec, msg.UserID); err != nil {
			return fmt.Errorf("index todo %d: %w", msg.TodoID, err)
		}
		zap.L().Debug("todo indexed", zap.Uint("todo_id", msg.TodoID))
	case models.NoteDeleted:
		if err := c.index.Delete(ctx, msg.TodoID); err != nil {
			return fmt.Errorf("unindex todo %d: %w", msg.TodoID, err)
		}
	default:
		zap.L().Warn("unknown note event action", zap.String("action", msg.Action))
	}
	return nil
}
