package httptransport

import "time"

// Addresses, hashes, and wei amounts travel as strings: 0x-prefixed hex for
// identities, decimal for amounts.

type OrderPayload struct {
	OrderID       string    `json:"order_id"`
	Seller        string    `json:"seller"`
	AssetContract string    `json:"asset_contract"`
	AssetID       string    `json:"asset_id"`
	PricePerUnit  string    `json:"price_per_unit"`
	ExpiresAt     time.Time `json:"expires_at"`
	Quantity      uint64    `json:"quantity"`
	AssetKind     string    `json:"asset_kind"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateOrderRequest struct {
	AssetContract string    `json:"asset_contract"`
	AssetID       string    `json:"asset_id"`
	PricePerUnit  string    `json:"price_per_unit"`
	ExpiresAt     time.Time `json:"expires_at"`
	Quantity      uint64    `json:"quantity"`
}

type CreateOrderResponse struct {
	Order OrderPayload `json:"order"`
}

type CancelOrderResponse struct {
	Order OrderPayload `json:"order"`
}

type ExecuteOrderRequest struct {
	Quantity uint64 `json:"quantity"`
	// Fingerprint is required on the safe-execute route and absent on the
	// plain one.
	Fingerprint string `json:"fingerprint,omitempty"`
}

type ExecuteOrderResponse struct {
	OrderID           string `json:"order_id"`
	FilledQuantity    uint64 `json:"filled_quantity"`
	RemainingQuantity uint64 `json:"remaining_quantity"`
	OrderPrice        string `json:"order_price"`
	CollectorShare    string `json:"collector_share"`
	RoyaltyShare      string `json:"royalty_share"`
	RoyaltyReceiver   string `json:"royalty_receiver"`
	SellerProceeds    string `json:"seller_proceeds"`
}

type GetOrderResponse struct {
	Order OrderPayload `json:"order"`
}

type ListOrdersRequest struct {
	AssetContract string
	Seller        string
	Cursor        string
	Limit         int
}

type ListOrdersResponse struct {
	Items      []OrderPayload `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

type SetFeesCollectorRequest struct {
	Collector string `json:"collector"`
}

type SetCutRequest struct {
	CutPerMillion uint64 `json:"cut_per_million"`
}

type SetPublicationFeeRequest struct {
	FeeInWei string `json:"fee_in_wei"`
}

type FeeConfigResponse struct {
	FeesCollector              string `json:"fees_collector"`
	FeesCollectorCutPerMillion uint64 `json:"fees_collector_cut_per_million"`
	RoyaltiesCutPerMillion     uint64 `json:"royalties_cut_per_million"`
	PublicationFeeInWei        string `json:"publication_fee_in_wei"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
