package postgresadapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	domainerrors "bazaar/contexts/exchange-core/settlement-engine/domain/errors"
	"bazaar/contexts/exchange-core/settlement-engine/ports"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"

	feeConfigSingletonID = 1
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateOrderWithOutbox(ctx context.Context, order entities.Order, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := orderModelFromEntity(order)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrOrderAlreadyExists
			}
			return err
		}
		return tx.Create(&outboxModel{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			Status:       outboxStatusPending,
			CreatedAt:    envelope.OccurredAt.UTC(),
		}).Error
	})
}

func (r *Repository) GetOrder(ctx context.Context, orderID common.Hash) (entities.Order, error) {
	var row orderModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Hex()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Order{}, domainerrors.ErrOrderNotFound
		}
		return entities.Order{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListOrders(ctx context.Context, filter ports.OrderListFilter) ([]entities.Order, string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	tx := r.db.WithContext(ctx).Model(&orderModel{})
	if filter.AssetContract != (common.Address{}) {
		tx = tx.Where("asset_contract = ?", filter.AssetContract.Hex())
	}
	if filter.Seller != (common.Address{}) {
		tx = tx.Where("seller = ?", filter.Seller.Hex())
	}
	tx = tx.Order("created_at DESC, order_id ASC")

	offset := decodeCursor(filter.Cursor)
	var rows []orderModel
	if err := tx.Offset(offset).Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = encodeCursor(offset + limit)
		rows = rows[:limit]
	}
	items := make([]entities.Order, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nextCursor, nil
}

func (r *Repository) RemoveOrderWithOutbox(ctx context.Context, orderID common.Hash, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("order_id = ?", orderID.Hex()).Delete(&orderModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrOrderNotFound
		}
		return tx.Create(&outboxModel{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			Status:       outboxStatusPending,
			CreatedAt:    envelope.OccurredAt.UTC(),
		}).Error
	})
}

func (r *Repository) DiscardOrder(ctx context.Context, orderID common.Hash, outboxID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("order_id = ?", orderID.Hex()).Delete(&orderModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrOrderNotFound
		}
		// The creation event must vanish with the order it announced.
		return tx.Where("outbox_id = ? AND status = ?", outboxID, outboxStatusPending).
			Delete(&outboxModel{}).
			Error
	})
}

func (r *Repository) ReserveOrderQuantity(ctx context.Context, orderID common.Hash, quantity uint64, now time.Time) (ports.OrderReservation, error) {
	var reservation ports.OrderReservation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row orderModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", orderID.Hex()).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrOrderNotFound
			}
			return err
		}
		if quantity > row.Quantity {
			return domainerrors.ErrInsufficientQuantity
		}

		reservation = ports.OrderReservation{
			Order:     row.toEntity(),
			Filled:    quantity,
			Exhausted: quantity == row.Quantity,
			FilledAt:  now.UTC(),
		}
		if reservation.Exhausted {
			return tx.Where("order_id = ?", orderID.Hex()).Delete(&orderModel{}).Error
		}
		return tx.Model(&orderModel{}).
			Where("order_id = ?", orderID.Hex()).
			Updates(map[string]any{
				"quantity":   row.Quantity - quantity,
				"updated_at": now.UTC(),
			}).Error
	})
	if err != nil {
		return ports.OrderReservation{}, err
	}
	return reservation, nil
}

func (r *Repository) RestoreOrder(ctx context.Context, reservation ports.OrderReservation) error {
	row := orderModelFromEntity(reservation.Order)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			UpdateAll: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) CommitFill(ctx context.Context, _ ports.OrderReservation, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&outboxModel{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}).Error
}

func (r *Repository) GetFeeConfig(ctx context.Context) (entities.FeeConfig, error) {
	var row feeConfigModel
	err := r.db.WithContext(ctx).
		Where("id = ?", feeConfigSingletonID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.FeeConfig{}, nil
		}
		return entities.FeeConfig{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateFeeConfigWithOutbox(ctx context.Context, config entities.FeeConfig, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := feeConfigModelFromEntity(config)
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Create(&outboxModel{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			Status:       outboxStatusPending,
			CreatedAt:    envelope.OccurredAt.UTC(),
		}).Error
	})
}

// SeedFeeConfig inserts the fee singleton when no row exists yet. An already
// seeded deployment keeps its current values.
func (r *Repository) SeedFeeConfig(ctx context.Context, config entities.FeeConfig) error {
	row := feeConfigModelFromEntity(config)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row).Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidInput
	}
	return nil
}

type orderModel struct {
	OrderID       string    `gorm:"column:order_id;primaryKey"`
	Seller        string    `gorm:"column:seller;uniqueIndex:orders_unique_listing"`
	AssetContract string    `gorm:"column:asset_contract;uniqueIndex:orders_unique_listing"`
	AssetID       string    `gorm:"column:asset_id;uniqueIndex:orders_unique_listing"`
	PricePerUnit  string    `gorm:"column:price_per_unit"`
	ExpiresAt     time.Time `gorm:"column:expires_at"`
	Quantity      uint64    `gorm:"column:quantity"`
	Kind          string    `gorm:"column:kind"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (orderModel) TableName() string {
	return "settlement_orders"
}

func orderModelFromEntity(order entities.Order) orderModel {
	return orderModel{
		OrderID:       order.ID.Hex(),
		Seller:        order.Seller.Hex(),
		AssetContract: order.AssetContract.Hex(),
		AssetID:       order.AssetID.String(),
		PricePerUnit:  order.PricePerUnit.String(),
		ExpiresAt:     order.ExpiresAt.UTC(),
		Quantity:      order.Quantity,
		Kind:          string(order.Kind),
		CreatedAt:     order.CreatedAt.UTC(),
		UpdatedAt:     order.UpdatedAt.UTC(),
	}
}

func (m orderModel) toEntity() entities.Order {
	assetID, _ := new(big.Int).SetString(m.AssetID, 10)
	if assetID == nil {
		assetID = new(big.Int)
	}
	price, _ := new(big.Int).SetString(m.PricePerUnit, 10)
	if price == nil {
		price = new(big.Int)
	}
	return entities.Order{
		ID:            common.HexToHash(m.OrderID),
		Seller:        common.HexToAddress(m.Seller),
		AssetContract: common.HexToAddress(m.AssetContract),
		AssetID:       assetID,
		PricePerUnit:  price,
		ExpiresAt:     m.ExpiresAt,
		Quantity:      m.Quantity,
		Kind:          entities.AssetKind(m.Kind),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type feeConfigModel struct {
	ID                         int       `gorm:"column:id;primaryKey"`
	FeesCollector              string    `gorm:"column:fees_collector"`
	FeesCollectorCutPerMillion uint64    `gorm:"column:fees_collector_cut_per_million"`
	RoyaltiesCutPerMillion     uint64    `gorm:"column:royalties_cut_per_million"`
	PublicationFeeInWei        string    `gorm:"column:publication_fee_in_wei"`
	UpdatedAt                  time.Time `gorm:"column:updated_at"`
}

func (feeConfigModel) TableName() string {
	return "settlement_fee_config"
}

func feeConfigModelFromEntity(config entities.FeeConfig) feeConfigModel {
	return feeConfigModel{
		ID:                         feeConfigSingletonID,
		FeesCollector:              config.FeesCollector.Hex(),
		FeesCollectorCutPerMillion: config.FeesCollectorCutPerMillion,
		RoyaltiesCutPerMillion:     config.RoyaltiesCutPerMillion,
		PublicationFeeInWei:        config.PublicationFee().String(),
		UpdatedAt:                  time.Now().UTC(),
	}
}

func (m feeConfigModel) toEntity() entities.FeeConfig {
	fee, _ := new(big.Int).SetString(m.PublicationFeeInWei, 10)
	if fee == nil {
		fee = new(big.Int)
	}
	return entities.FeeConfig{
		FeesCollector:              common.HexToAddress(m.FeesCollector),
		FeesCollectorCutPerMillion: m.FeesCollectorCutPerMillion,
		RoyaltiesCutPerMillion:     m.RoyaltiesCutPerMillion,
		PublicationFeeInWei:        fee,
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "settlement_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func decodeCursor(cursor string) int {
	if strings.TrimSpace(cursor) == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}
