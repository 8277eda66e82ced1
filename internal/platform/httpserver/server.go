package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	assetadapter "bazaar/contexts/exchange-core/asset-adapter"
	settlementengine "bazaar/contexts/exchange-core/settlement-engine"
	settlementerrors "bazaar/contexts/exchange-core/settlement-engine/domain/errors"
	settlementhttp "bazaar/contexts/exchange-core/settlement-engine/transport/http"

	authorizationforwarder "bazaar/contexts/collection-governance/authorization-forwarder"
	collectionmanager "bazaar/contexts/collection-governance/collection-manager"
	governanceerrors "bazaar/contexts/collection-governance/collection-manager/domain/errors"
	governancehttp "bazaar/contexts/collection-governance/collection-manager/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "bazaar/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	settlement settlementengine.Module
	governance collectionmanager.Module
}

func New(
	settlement settlementengine.Module,
	governance collectionmanager.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		settlement: settlement,
		governance: governance,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/exchange/orders", s.handleCreateOrder)
	s.mux.HandleFunc("GET /v1/exchange/orders", s.handleListOrders)
	s.mux.HandleFunc("GET /v1/exchange/orders/{order_id}", s.handleGetOrder)
	s.mux.HandleFunc("DELETE /v1/exchange/orders/{order_id}", s.handleCancelOrder)
	s.mux.HandleFunc("POST /v1/exchange/orders/{order_id}/execute", s.handleExecuteOrder)
	s.mux.HandleFunc("POST /v1/exchange/orders/{order_id}/safe-execute", s.handleSafeExecuteOrder)
	s.mux.HandleFunc("POST /v1/exchange/fees/collector", s.handleSetFeesCollector)
	s.mux.HandleFunc("POST /v1/exchange/fees/collector-cut", s.handleSetFeesCollectorCut)
	s.mux.HandleFunc("POST /v1/exchange/fees/royalties-cut", s.handleSetRoyaltiesCut)
	s.mux.HandleFunc("POST /v1/exchange/fees/publication-fee", s.handleSetPublicationFee)

	s.mux.HandleFunc("POST /v1/governance/collections", s.handleCreateCollection)
	s.mux.HandleFunc("POST /v1/governance/collections/manage", s.handleManageCollection)
	s.mux.HandleFunc("POST /v1/governance/allowed-operations", s.handleSetAllowedOperation)
	s.mux.HandleFunc("GET /v1/governance/allowed-operations", s.handleListAllowedOperations)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	caller := callerAddress(r)
	if caller == "" {
		writeSettlementError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}

	var req settlementhttp.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.settlement.Handler.CreateOrderHandler(r.Context(), caller, req)
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := settlementhttp.ListOrdersRequest{
		AssetContract: query.Get("asset_contract"),
		Seller:        query.Get("seller"),
		Cursor:        query.Get("cursor"),
	}
	if limitRaw := query.Get("limit"); limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeSettlementError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		req.Limit = limit
	}

	resp, err := s.settlement.Handler.ListOrdersHandler(r.Context(), req)
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	resp, err := s.settlement.Handler.GetOrderHandler(r.Context(), r.PathValue("order_id"))
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	caller := callerAddress(r)
	if caller == "" {
		writeSettlementError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}

	resp, err := s.settlement.Handler.CancelOrderHandler(r.Context(), caller, r.PathValue("order_id"))
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExecuteOrder(w http.ResponseWriter, r *http.Request) {
	caller := callerAddress(r)
	if caller == "" {
		writeSettlementError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}

	var req settlementhttp.ExecuteOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	// The plain execute path never carries a state claim.
	req.Fingerprint = ""

	resp, err := s.settlement.Handler.ExecuteOrderHandler(r.Context(), caller, r.PathValue("order_id"), req)
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSafeExecuteOrder(w http.ResponseWriter, r *http.Request) {
	caller := callerAddress(r)
	if caller == "" {
		writeSettlementError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}

	var req settlementhttp.ExecuteOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Fingerprint) == "" {
		writeSettlementError(w, http.StatusBadRequest, "missing_fingerprint", "safe execution requires a fingerprint")
		return
	}

	resp, err := s.settlement.Handler.ExecuteOrderHandler(r.Context(), caller, r.PathValue("order_id"), req)
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetFeesCollector(w http.ResponseWriter, r *http.Request) {
	caller := callerAddress(r)
	if caller == "" {
		writeSettlementError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}

	var req settlementhttp.SetFeesCollectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.settlement.Handler.SetFeesCollectorHandler(r.Context(), caller, req)
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetFeesCollectorCut(w http.ResponseWriter, r *http.Request) {
	caller := callerAddress(r)
	if caller == "" {
		writeSettlementError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}

	var req settlementhttp.SetCutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.settlement.Handler.SetFeesCollectorCutHandler(r.Context(), caller, req)
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetRoyaltiesCut(w http.ResponseWriter, r *http.Request) {
	caller := callerAddress(r)
	if caller == "" {
		writeSettlementError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}

	var req settlementhttp.SetCutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.settlement.Handler.SetRoyaltiesCutHandler(r.Context(), caller, req)
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetPublicationFee(w http.ResponseWriter, r *http.Request) {
	caller := callerAddress(r)
	if caller == "" {
		writeSettlementError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}

	var req settlementhttp.SetPublicationFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSettlementError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.settlement.Handler.SetPublicationFeeHandler(r.Context(), caller, req)
	if err != nil {
		writeSettlementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	caller := callerAddress(r)
	if caller == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}

	var req governancehttp.CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.governance.Handler.CreateCollectionHandler(r.Context(), caller, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleManageCollection(w http.ResponseWriter, r *http.Request) {
	caller := callerAddress(r)
	if caller == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}

	var req governancehttp.ManageCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.governance.Handler.ManageCollectionHandler(r.Context(), caller, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetAllowedOperation(w http.ResponseWriter, r *http.Request) {
	caller := callerAddress(r)
	if caller == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}

	var req governancehttp.SetAllowedOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.governance.Handler.SetAllowedOperationHandler(r.Context(), caller, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAllowedOperations(w http.ResponseWriter, r *http.Request) {
	resp, err := s.governance.Handler.ListAllowedOperationsHandler(r.Context())
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSettlementDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, settlementerrors.ErrInvalidInput):
		writeSettlementError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, settlementerrors.ErrInvalidPrice):
		writeSettlementError(w, http.StatusBadRequest, "invalid_price", err.Error())
	case errors.Is(err, settlementerrors.ErrInvalidExpiry):
		writeSettlementError(w, http.StatusBadRequest, "invalid_expiry", err.Error())
	case errors.Is(err, settlementerrors.ErrInvalidQuantity):
		writeSettlementError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, settlementerrors.ErrOrderNotFound):
		writeSettlementError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, settlementerrors.ErrOrderAlreadyExists):
		writeSettlementError(w, http.StatusConflict, "order_already_exists", err.Error())
	case errors.Is(err, settlementerrors.ErrOrderExpired):
		writeSettlementError(w, http.StatusConflict, "order_expired", err.Error())
	case errors.Is(err, settlementerrors.ErrSelfTrade):
		writeSettlementError(w, http.StatusConflict, "self_trade", err.Error())
	case errors.Is(err, settlementerrors.ErrInsufficientQuantity):
		writeSettlementError(w, http.StatusConflict, "insufficient_quantity", err.Error())
	case errors.Is(err, settlementerrors.ErrSellerNoLongerOwner),
		errors.Is(err, settlementerrors.ErrSellerInsufficientBalance):
		writeSettlementError(w, http.StatusConflict, "seller_holding_changed", err.Error())
	case errors.Is(err, settlementerrors.ErrFingerprintMismatch):
		writeSettlementError(w, http.StatusConflict, "fingerprint_mismatch", err.Error())
	case errors.Is(err, settlementerrors.ErrNotAssetOwner):
		writeSettlementError(w, http.StatusForbidden, "not_asset_owner", err.Error())
	case errors.Is(err, settlementerrors.ErrInsufficientBalance):
		writeSettlementError(w, http.StatusForbidden, "insufficient_balance", err.Error())
	case errors.Is(err, settlementerrors.ErrNotApproved):
		writeSettlementError(w, http.StatusForbidden, "engine_not_approved", err.Error())
	case errors.Is(err, settlementerrors.ErrUnauthorized):
		writeSettlementError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, settlementerrors.ErrInvalidFeeConfig):
		writeSettlementError(w, http.StatusUnprocessableEntity, "invalid_fee_config", err.Error())
	case errors.Is(err, settlementerrors.ErrExternalTransferFailed):
		writeSettlementError(w, http.StatusPaymentRequired, "external_transfer_failed", err.Error())
	case errors.Is(err, assetadapter.ErrUnsupportedAsset):
		writeSettlementError(w, http.StatusUnprocessableEntity, "unsupported_asset", err.Error())
	case errors.Is(err, assetadapter.ErrTransferRejected):
		writeSettlementError(w, http.StatusPaymentRequired, "transfer_rejected", err.Error())
	default:
		writeSettlementError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeGovernanceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, governanceerrors.ErrInvalidInput):
		writeGovernanceError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, governanceerrors.ErrUnauthorized),
		errors.Is(err, authorizationforwarder.ErrUnauthorizedCaller):
		writeGovernanceError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, governanceerrors.ErrSelfForward):
		writeGovernanceError(w, http.StatusBadRequest, "self_forward", err.Error())
	case errors.Is(err, governanceerrors.ErrInvalidCollection):
		writeGovernanceError(w, http.StatusUnprocessableEntity, "invalid_collection", err.Error())
	case errors.Is(err, governanceerrors.ErrOperationNotAllowed):
		writeGovernanceError(w, http.StatusForbidden, "operation_not_allowed", err.Error())
	case errors.Is(err, governanceerrors.ErrForwardFailed):
		writeGovernanceError(w, http.StatusBadGateway, "forward_failed", err.Error())
	default:
		writeGovernanceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSettlementError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, settlementhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeGovernanceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, governancehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func callerAddress(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Caller-Address"))
}
