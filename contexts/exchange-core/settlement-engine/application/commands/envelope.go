package commands

import (
	"encoding/json"
	"time"

	"bazaar/internal/shared/events"
)

const sourceService = "settlement-engine"

func buildEnvelope(eventID string, eventType string, occurredAt time.Time, partitionKey string, data any) (events.Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return events.Envelope{}, err
	}
	return events.Envelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceService,
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "order_id",
		PartitionKey:     partitionKey,
		Data:             raw,
	}, nil
}
