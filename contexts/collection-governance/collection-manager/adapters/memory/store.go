package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	application "bazaar/contexts/collection-governance/collection-manager/application"
	"bazaar/contexts/collection-governance/collection-manager/domain/entities"
	domainerrors "bazaar/contexts/collection-governance/collection-manager/domain/errors"
	"bazaar/contexts/collection-governance/collection-manager/ports"
)

// Store holds the committee allow-list and the event outbox in memory. It is
// not production persistence.
type Store struct {
	mu          sync.RWMutex
	allowlist   map[entities.Selector]entities.AllowedOperation
	outbox      map[string]ports.OutboxMessage
	outboxOrder []string
	outboxSent  map[string]time.Time
	sequence    uint64
	logger      *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		allowlist:   make(map[entities.Selector]entities.AllowedOperation),
		outbox:      make(map[string]ports.OutboxMessage),
		outboxOrder: make([]string, 0),
		outboxSent:  make(map[string]time.Time),
		logger:      application.ResolveLogger(logger),
	}
}

func (s *Store) SetAllowedOperationWithOutbox(_ context.Context, operation entities.AllowedOperation, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.allowlist[operation.Selector]
	s.allowlist[operation.Selector] = operation
	if err := s.appendOutbox(envelope); err != nil {
		if existed {
			s.allowlist[operation.Selector] = previous
		} else {
			delete(s.allowlist, operation.Selector)
		}
		return err
	}
	return nil
}

func (s *Store) IsOperationAllowed(_ context.Context, selector entities.Selector) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowlist[selector].Allowed, nil
}

func (s *Store) ListAllowedOperations(_ context.Context) ([]entities.AllowedOperation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	operations := make([]entities.AllowedOperation, 0, len(s.allowlist))
	for _, operation := range s.allowlist {
		operations = append(operations, operation)
	}
	sort.Slice(operations, func(i, j int) bool {
		return operations[i].Selector.Hex() < operations[j].Selector.Hex()
	})
	return operations, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendOutbox(envelope)
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	messages := make([]ports.OutboxMessage, 0, limit)
	for _, id := range s.outboxOrder {
		if _, sent := s.outboxSent[id]; sent {
			continue
		}
		if msg, ok := s.outbox[id]; ok {
			messages = append(messages, msg)
		}
		if len(messages) >= limit {
			break
		}
	}
	return messages, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.outbox[outboxID]; !ok {
		return domainerrors.ErrInvalidInput
	}
	s.outboxSent[outboxID] = sentAt.UTC()
	return nil
}

// OutboxEvents exposes every appended event in order, for tests.
func (s *Store) OutboxEvents() []ports.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]ports.OutboxMessage, 0, len(s.outboxOrder))
	for _, id := range s.outboxOrder {
		if evt, ok := s.outbox[id]; ok {
			events = append(events, evt)
		}
	}
	return events
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("gov-%d", value), nil
}

// appendOutbox requires s.mu held for writing.
func (s *Store) appendOutbox(envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox[envelope.EventID] = ports.OutboxMessage{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       "pending",
		CreatedAt:    envelope.OccurredAt,
	}
	s.outboxOrder = append(s.outboxOrder, envelope.EventID)
	return nil
}
