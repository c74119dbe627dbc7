package pubsub

import (
	"context"
	"encoding/json"
)

// TopicDataset carries dataset lifecycle events: the version list after a
// (re)load, so connected UIs can refresh their version picker.
const TopicDataset = "dataset"

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"`    // e.g., "loaded", "reloaded"
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic.
	// Context cancellation will close the subscription.
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// DatasetEvent is the payload for TopicDataset events
type DatasetEvent struct {
	Versions  []string `json:"versions"`
	Latest    string   `json:"latest"`
	Overrides bool     `json:"overrides"` // true when an overrides document is in effect
}
