package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type EventType string

const (
	EventFollowCreated  EventType = "follow.created"
	EventFollowRemoved  EventType = "follow.removed"
	EventFriendCreated  EventType = "friend.created"
	EventFriendRemoved  EventType = "friend.removed"
	EventBlockCreated   EventType = "block.created"
	EventPostCreated    EventType = "post.created"
	EventPostRemoved    EventType = "post.removed"
	EventLikeCreated    EventType = "like.created"
	EventLikeRemoved    EventType = "like.removed"
	EventCommentCreated EventType = "comment.created"
	EventCommentRemoved EventType = "comment.removed"
)

// Event is the envelope published after every committed state transition.
// Consumers use it to invalidate stats caches and to schedule targeted
// counter reconciliation; it is advisory, never the source of truth.
type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// RelationshipEventData accompanies follow/friend/block events. Both sides of
// the pair are carried so a consumer can refresh both profiles.
type RelationshipEventData struct {
	UserID  string `json:"user_id"`
	OtherID string `json:"other_id"`
}

// InteractionEventData accompanies post/like/comment events. ProfileID is the
// post recipient whose profile counters the interaction touched.
type InteractionEventData struct {
	UserID    string `json:"user_id"`
	PostID    string `json:"post_id"`
	ProfileID string `json:"profile_id,omitempty"`
}

func NewEvent(t EventType, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return Event{Type: t, Timestamp: time.Now(), Data: raw}, nil
}

type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Async:    false,
	}

	return &KafkaProducer{writer: writer}
}

func (p *KafkaProducer) Publish(ctx context.Context, key string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	return p.writer.WriteMessages(ctx, message)
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, topic, groupID string) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: 1 * time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	return &KafkaConsumer{reader: reader}
}

// Subscribe reads events until ctx is cancelled. Malformed messages and
// handler failures are skipped, not fatal: the reconciler's periodic sweep
// covers anything an event consumer drops.
func (c *KafkaConsumer) Subscribe(ctx context.Context, handler func(Event) error) error {
	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		var event Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			continue
		}

		if err := handler(event); err != nil {
			continue
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
