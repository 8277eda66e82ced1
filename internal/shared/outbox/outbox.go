package outbox

import "time"

// Message is an outbox row persisted inside the same transaction as the state
// change it announces. Worker relays read pending rows and publish them.
type Message struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	Status       string // pending, sent
	CreatedAt    time.Time
}
