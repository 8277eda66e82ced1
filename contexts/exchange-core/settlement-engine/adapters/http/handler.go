package httpadapter

import (
	"context"
	"log/slog"
	"math/big"
	"strings"

	application "bazaar/contexts/exchange-core/settlement-engine/application"
	"bazaar/contexts/exchange-core/settlement-engine/application/commands"
	"bazaar/contexts/exchange-core/settlement-engine/application/queries"
	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	domainerrors "bazaar/contexts/exchange-core/settlement-engine/domain/errors"
	httptransport "bazaar/contexts/exchange-core/settlement-engine/transport/http"

	"github.com/ethereum/go-ethereum/common"
)

type Handler struct {
	CreateOrder  commands.CreateOrderUseCase
	CancelOrder  commands.CancelOrderUseCase
	ExecuteOrder commands.ExecuteOrderUseCase
	UpdateFees   commands.UpdateFeesUseCase
	GetOrder     queries.GetOrderUseCase
	ListOrders   queries.ListOrdersUseCase
	Logger       *slog.Logger
}

// CreateOrderHandler godoc
// @Summary Create a sell order
// @Description Lists a quantity of one item at a fixed per-unit price until expiry.
// @Tags settlement-engine
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Seller account address"
// @Param request body httptransport.CreateOrderRequest true "Listing"
// @Success 200 {object} httptransport.CreateOrderResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/exchange/orders [post]
func (h Handler) CreateOrderHandler(ctx context.Context, caller string, req httptransport.CreateOrderRequest) (httptransport.CreateOrderResponse, error) {
	seller, err := parseAddress(caller)
	if err != nil {
		return httptransport.CreateOrderResponse{}, err
	}
	assetContract, err := parseAddress(req.AssetContract)
	if err != nil {
		return httptransport.CreateOrderResponse{}, err
	}
	assetID, err := parseAmount(req.AssetID)
	if err != nil {
		return httptransport.CreateOrderResponse{}, err
	}
	price, err := parseAmount(req.PricePerUnit)
	if err != nil {
		return httptransport.CreateOrderResponse{}, err
	}

	result, err := h.CreateOrder.Execute(ctx, commands.CreateOrderCommand{
		Seller:        seller,
		AssetContract: assetContract,
		AssetID:       assetID,
		PricePerUnit:  price,
		ExpiresAt:     req.ExpiresAt,
		Quantity:      req.Quantity,
	})
	if err != nil {
		application.ResolveLogger(h.Logger).Error("create order request failed",
			"event", "http_create_order_failed",
			"module", "exchange-core/settlement-engine",
			"layer", "transport",
			"seller", caller,
			"error", err.Error(),
		)
		return httptransport.CreateOrderResponse{}, err
	}
	return httptransport.CreateOrderResponse{Order: mapOrder(result.Order)}, nil
}

// CancelOrderHandler godoc
// @Summary Cancel an active order
// @Description Removes the order from the ledger. Seller or administrator only.
// @Tags settlement-engine
// @Produce json
// @Param X-Caller-Address header string true "Caller account address"
// @Param order_id path string true "Order id"
// @Success 200 {object} httptransport.CancelOrderResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/exchange/orders/{order_id} [delete]
func (h Handler) CancelOrderHandler(ctx context.Context, caller string, orderID string) (httptransport.CancelOrderResponse, error) {
	callerAddress, err := parseAddress(caller)
	if err != nil {
		return httptransport.CancelOrderResponse{}, err
	}
	id, err := parseHash(orderID)
	if err != nil {
		return httptransport.CancelOrderResponse{}, err
	}

	result, err := h.CancelOrder.Execute(ctx, commands.CancelOrderCommand{
		Caller:  callerAddress,
		OrderID: id,
	})
	if err != nil {
		return httptransport.CancelOrderResponse{}, err
	}
	return httptransport.CancelOrderResponse{Order: mapOrder(result.Order)}, nil
}

// ExecuteOrderHandler godoc
// @Summary Fill an order
// @Description Settles quantity units atomically: payment to royalty receiver, collector, and seller, then the asset to the buyer.
// @Tags settlement-engine
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Buyer account address"
// @Param order_id path string true "Order id"
// @Param request body httptransport.ExecuteOrderRequest true "Fill"
// @Success 200 {object} httptransport.ExecuteOrderResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/exchange/orders/{order_id}/execute [post]
func (h Handler) ExecuteOrderHandler(ctx context.Context, caller string, orderID string, req httptransport.ExecuteOrderRequest) (httptransport.ExecuteOrderResponse, error) {
	buyer, err := parseAddress(caller)
	if err != nil {
		return httptransport.ExecuteOrderResponse{}, err
	}
	id, err := parseHash(orderID)
	if err != nil {
		return httptransport.ExecuteOrderResponse{}, err
	}
	fingerprint := common.Hash{}
	if strings.TrimSpace(req.Fingerprint) != "" {
		fingerprint, err = parseHash(req.Fingerprint)
		if err != nil {
			return httptransport.ExecuteOrderResponse{}, err
		}
	}

	result, err := h.ExecuteOrder.Execute(ctx, commands.ExecuteOrderCommand{
		Buyer:       buyer,
		OrderID:     id,
		Quantity:    req.Quantity,
		Fingerprint: fingerprint,
	})
	if err != nil {
		application.ResolveLogger(h.Logger).Error("execute order request failed",
			"event", "http_execute_order_failed",
			"module", "exchange-core/settlement-engine",
			"layer", "transport",
			"order_id", orderID,
			"buyer", caller,
			"error", err.Error(),
		)
		return httptransport.ExecuteOrderResponse{}, err
	}

	return httptransport.ExecuteOrderResponse{
		OrderID:           result.Order.ID.Hex(),
		FilledQuantity:    result.FilledQuantity,
		RemainingQuantity: result.RemainingQuantity,
		OrderPrice:        result.OrderPrice.String(),
		CollectorShare:    result.CollectorShare.String(),
		RoyaltyShare:      result.RoyaltyShare.String(),
		RoyaltyReceiver:   result.RoyaltyReceiver.Hex(),
		SellerProceeds:    result.SellerProceeds.String(),
	}, nil
}

// GetOrderHandler godoc
// @Summary Get one order
// @Tags settlement-engine
// @Produce json
// @Param order_id path string true "Order id"
// @Success 200 {object} httptransport.GetOrderResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/exchange/orders/{order_id} [get]
func (h Handler) GetOrderHandler(ctx context.Context, orderID string) (httptransport.GetOrderResponse, error) {
	id, err := parseHash(orderID)
	if err != nil {
		return httptransport.GetOrderResponse{}, err
	}
	result, err := h.GetOrder.Execute(ctx, queries.GetOrderQuery{OrderID: id})
	if err != nil {
		return httptransport.GetOrderResponse{}, err
	}
	return httptransport.GetOrderResponse{Order: mapOrder(result.Order)}, nil
}

// ListOrdersHandler godoc
// @Summary List active orders
// @Tags settlement-engine
// @Produce json
// @Param asset_contract query string false "Registry address filter"
// @Param seller query string false "Seller address filter"
// @Param cursor query string false "Cursor token"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} httptransport.ListOrdersResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/exchange/orders [get]
func (h Handler) ListOrdersHandler(ctx context.Context, req httptransport.ListOrdersRequest) (httptransport.ListOrdersResponse, error) {
	var assetContract, seller common.Address
	var err error
	if strings.TrimSpace(req.AssetContract) != "" {
		assetContract, err = parseAddress(req.AssetContract)
		if err != nil {
			return httptransport.ListOrdersResponse{}, err
		}
	}
	if strings.TrimSpace(req.Seller) != "" {
		seller, err = parseAddress(req.Seller)
		if err != nil {
			return httptransport.ListOrdersResponse{}, err
		}
	}

	result, err := h.ListOrders.Execute(ctx, queries.ListOrdersQuery{
		AssetContract: assetContract,
		Seller:        seller,
		Cursor:        req.Cursor,
		Limit:         req.Limit,
	})
	if err != nil {
		return httptransport.ListOrdersResponse{}, err
	}

	items := make([]httptransport.OrderPayload, 0, len(result.Items))
	for _, order := range result.Items {
		items = append(items, mapOrder(order))
	}
	return httptransport.ListOrdersResponse{Items: items, NextCursor: result.NextCursor}, nil
}

// SetFeesCollectorHandler godoc
// @Summary Set the fees collector
// @Tags settlement-engine
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Owner account address"
// @Param request body httptransport.SetFeesCollectorRequest true "Collector"
// @Success 200 {object} httptransport.FeeConfigResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /v1/exchange/fees/collector [post]
func (h Handler) SetFeesCollectorHandler(ctx context.Context, caller string, req httptransport.SetFeesCollectorRequest) (httptransport.FeeConfigResponse, error) {
	callerAddress, err := parseAddress(caller)
	if err != nil {
		return httptransport.FeeConfigResponse{}, err
	}
	collector, err := parseAddress(req.Collector)
	if err != nil {
		return httptransport.FeeConfigResponse{}, err
	}
	config, err := h.UpdateFees.SetFeesCollector(ctx, callerAddress, collector)
	if err != nil {
		return httptransport.FeeConfigResponse{}, err
	}
	return mapFeeConfig(config), nil
}

// SetFeesCollectorCutHandler godoc
// @Summary Set the collector cut rate
// @Tags settlement-engine
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Owner account address"
// @Param request body httptransport.SetCutRequest true "Cut per million"
// @Success 200 {object} httptransport.FeeConfigResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /v1/exchange/fees/collector-cut [post]
func (h Handler) SetFeesCollectorCutHandler(ctx context.Context, caller string, req httptransport.SetCutRequest) (httptransport.FeeConfigResponse, error) {
	callerAddress, err := parseAddress(caller)
	if err != nil {
		return httptransport.FeeConfigResponse{}, err
	}
	config, err := h.UpdateFees.SetFeesCollectorCut(ctx, callerAddress, req.CutPerMillion)
	if err != nil {
		return httptransport.FeeConfigResponse{}, err
	}
	return mapFeeConfig(config), nil
}

// SetRoyaltiesCutHandler godoc
// @Summary Set the royalties cut rate
// @Tags settlement-engine
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Owner account address"
// @Param request body httptransport.SetCutRequest true "Cut per million"
// @Success 200 {object} httptransport.FeeConfigResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /v1/exchange/fees/royalties-cut [post]
func (h Handler) SetRoyaltiesCutHandler(ctx context.Context, caller string, req httptransport.SetCutRequest) (httptransport.FeeConfigResponse, error) {
	callerAddress, err := parseAddress(caller)
	if err != nil {
		return httptransport.FeeConfigResponse{}, err
	}
	config, err := h.UpdateFees.SetRoyaltiesCut(ctx, callerAddress, req.CutPerMillion)
	if err != nil {
		return httptransport.FeeConfigResponse{}, err
	}
	return mapFeeConfig(config), nil
}

// SetPublicationFeeHandler godoc
// @Summary Set the flat publication fee
// @Tags settlement-engine
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Owner account address"
// @Param request body httptransport.SetPublicationFeeRequest true "Fee in wei"
// @Success 200 {object} httptransport.FeeConfigResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /v1/exchange/fees/publication-fee [post]
func (h Handler) SetPublicationFeeHandler(ctx context.Context, caller string, req httptransport.SetPublicationFeeRequest) (httptransport.FeeConfigResponse, error) {
	callerAddress, err := parseAddress(caller)
	if err != nil {
		return httptransport.FeeConfigResponse{}, err
	}
	fee, err := parseAmount(req.FeeInWei)
	if err != nil {
		return httptransport.FeeConfigResponse{}, err
	}
	config, err := h.UpdateFees.SetPublicationFee(ctx, callerAddress, fee)
	if err != nil {
		return httptransport.FeeConfigResponse{}, err
	}
	return mapFeeConfig(config), nil
}

func mapOrder(order entities.Order) httptransport.OrderPayload {
	return httptransport.OrderPayload{
		OrderID:       order.ID.Hex(),
		Seller:        order.Seller.Hex(),
		AssetContract: order.AssetContract.Hex(),
		AssetID:       order.AssetID.String(),
		PricePerUnit:  order.PricePerUnit.String(),
		ExpiresAt:     order.ExpiresAt,
		Quantity:      order.Quantity,
		AssetKind:     string(order.Kind),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func mapFeeConfig(config entities.FeeConfig) httptransport.FeeConfigResponse {
	return httptransport.FeeConfigResponse{
		FeesCollector:              config.FeesCollector.Hex(),
		FeesCollectorCutPerMillion: config.FeesCollectorCutPerMillion,
		RoyaltiesCutPerMillion:     config.RoyaltiesCutPerMillion,
		PublicationFeeInWei:        config.PublicationFee().String(),
	}
}

func parseAddress(raw string) (common.Address, error) {
	if !common.IsHexAddress(strings.TrimSpace(raw)) {
		return common.Address{}, domainerrors.ErrInvalidInput
	}
	return common.HexToAddress(strings.TrimSpace(raw)), nil
}

func parseHash(raw string) (common.Hash, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "0x") || len(trimmed) != 2+2*common.HashLength {
		return common.Hash{}, domainerrors.ErrInvalidInput
	}
	return common.HexToHash(trimmed), nil
}

func parseAmount(raw string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok || amount.Sign() < 0 {
		return nil, domainerrors.ErrInvalidInput
	}
	return amount, nil
}
