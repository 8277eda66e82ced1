package memory

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	application "bazaar/contexts/exchange-core/settlement-engine/application"
	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	domainerrors "bazaar/contexts/exchange-core/settlement-engine/domain/errors"
	"bazaar/contexts/exchange-core/settlement-engine/ports"

	"github.com/ethereum/go-ethereum/common"
)

// Store is the in-memory order ledger used by tests and the local runtime.
// A single mutex critical section per mutation approximates the transactional
// write boundary of the postgres adapter. It is not production persistence.
type Store struct {
	mu          sync.RWMutex
	orders      map[common.Hash]entities.Order
	ordersByKey map[string]common.Hash
	feeConfig   entities.FeeConfig
	outbox      map[string]ports.OutboxMessage
	outboxOrder []string
	outboxSent  map[string]time.Time
	sequence    uint64
	logger      *slog.Logger

	// FailCommitFill makes CommitFill report a write failure.
	FailCommitFill bool
}

// NewStore seeds the fee configuration singleton and initializes an empty
// ledger.
func NewStore(feeConfig entities.FeeConfig, logger *slog.Logger) *Store {
	return &Store{
		orders:      make(map[common.Hash]entities.Order),
		ordersByKey: make(map[string]common.Hash),
		feeConfig:   feeConfig,
		outbox:      make(map[string]ports.OutboxMessage),
		outboxOrder: make([]string, 0),
		outboxSent:  make(map[string]time.Time),
		logger:      application.ResolveLogger(logger),
	}
}

func orderKey(assetContract common.Address, assetID *big.Int, seller common.Address) string {
	return assetContract.Hex() + "|" + assetID.String() + "|" + seller.Hex()
}

func (s *Store) CreateOrderWithOutbox(_ context.Context, order entities.Order, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; ok {
		return domainerrors.ErrOrderAlreadyExists
	}
	key := orderKey(order.AssetContract, order.AssetID, order.Seller)
	if _, ok := s.ordersByKey[key]; ok {
		return domainerrors.ErrOrderAlreadyExists
	}

	s.orders[order.ID] = order
	s.ordersByKey[key] = order.ID
	if err := s.appendOutbox(envelope); err != nil {
		delete(s.orders, order.ID)
		delete(s.ordersByKey, key)
		return err
	}

	s.logger.Info("order persisted in memory store",
		"event", "memory_create_order",
		"module", "exchange-core/settlement-engine",
		"layer", "adapter",
		"order_id", order.ID.Hex(),
		"seller", order.Seller.Hex(),
	)
	return nil
}

func (s *Store) GetOrder(_ context.Context, orderID common.Hash) (entities.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return entities.Order{}, domainerrors.ErrOrderNotFound
	}
	return order, nil
}

func (s *Store) ListOrders(_ context.Context, filter ports.OrderListFilter) ([]entities.Order, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []entities.Order
	for _, order := range s.orders {
		if filter.AssetContract != (common.Address{}) && order.AssetContract != filter.AssetContract {
			continue
		}
		if filter.Seller != (common.Address{}) && order.Seller != filter.Seller {
			continue
		}
		filtered = append(filtered, order)
	}
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ID.Hex() < filtered[j].ID.Hex()
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	start := decodeCursor(filter.Cursor)
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + filter.Limit
	if filter.Limit <= 0 {
		end = start + 50
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	page := append([]entities.Order(nil), filtered[start:end]...)
	nextCursor := ""
	if end < len(filtered) {
		nextCursor = encodeCursor(end)
	}
	return page, nextCursor, nil
}

func (s *Store) RemoveOrderWithOutbox(_ context.Context, orderID common.Hash, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domainerrors.ErrOrderNotFound
	}
	delete(s.orders, orderID)
	delete(s.ordersByKey, orderKey(order.AssetContract, order.AssetID, order.Seller))
	if err := s.appendOutbox(envelope); err != nil {
		s.orders[orderID] = order
		s.ordersByKey[orderKey(order.AssetContract, order.AssetID, order.Seller)] = orderID
		return err
	}
	return nil
}

func (s *Store) DiscardOrder(_ context.Context, orderID common.Hash, outboxID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domainerrors.ErrOrderNotFound
	}
	delete(s.orders, orderID)
	delete(s.ordersByKey, orderKey(order.AssetContract, order.AssetID, order.Seller))
	s.removeOutbox(outboxID)
	return nil
}

func (s *Store) ReserveOrderQuantity(_ context.Context, orderID common.Hash, quantity uint64, now time.Time) (ports.OrderReservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return ports.OrderReservation{}, domainerrors.ErrOrderNotFound
	}
	if quantity > order.Quantity {
		return ports.OrderReservation{}, domainerrors.ErrInsufficientQuantity
	}

	reservation := ports.OrderReservation{
		Order:     order,
		Filled:    quantity,
		Exhausted: quantity == order.Quantity,
		FilledAt:  now.UTC(),
	}
	if reservation.Exhausted {
		delete(s.orders, orderID)
		delete(s.ordersByKey, orderKey(order.AssetContract, order.AssetID, order.Seller))
	} else {
		order.Quantity -= quantity
		order.UpdatedAt = now.UTC()
		s.orders[orderID] = order
	}

	s.logger.Debug("order quantity reserved",
		"event", "memory_reserve_order",
		"module", "exchange-core/settlement-engine",
		"layer", "adapter",
		"order_id", orderID.Hex(),
		"filled", quantity,
		"exhausted", reservation.Exhausted,
	)
	return reservation, nil
}

func (s *Store) RestoreOrder(_ context.Context, reservation ports.OrderReservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := reservation.Order
	s.orders[order.ID] = order
	s.ordersByKey[orderKey(order.AssetContract, order.AssetID, order.Seller)] = order.ID
	return nil
}

func (s *Store) CommitFill(_ context.Context, _ ports.OrderReservation, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCommitFill {
		return fmt.Errorf("commit fill rejected")
	}
	return s.appendOutbox(envelope)
}

func (s *Store) GetFeeConfig(_ context.Context) (entities.FeeConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feeConfig, nil
}

func (s *Store) UpdateFeeConfigWithOutbox(_ context.Context, config entities.FeeConfig, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.feeConfig
	s.feeConfig = config
	if err := s.appendOutbox(envelope); err != nil {
		s.feeConfig = previous
		return err
	}
	return nil
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
	return fmt.Sprintf("stl-%d", value), nil
}

// removeOutbox requires s.mu held for writing.
func (s *Store) removeOutbox(outboxID string) {
	if _, ok := s.outbox[outboxID]; !ok {
		return
	}
	delete(s.outbox, outboxID)
	delete(s.outboxSent, outboxID)
	for i, id := range s.outboxOrder {
		if id == outboxID {
			s.outboxOrder = append(s.outboxOrder[:i], s.outboxOrder[i+1:]...)
			break
		}
	}
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

func decodeCursor(cursor string) int {
	if strings.TrimSpace(cursor) == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0
	}
	index, err := strconv.Atoi(string(raw))
	if err != nil || index < 0 {
		return 0
	}
	return index
}

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}
