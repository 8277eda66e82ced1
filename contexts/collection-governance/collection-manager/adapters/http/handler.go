package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	application "bazaar/contexts/collection-governance/collection-manager/application"
	"bazaar/contexts/collection-governance/collection-manager/application/commands"
	"bazaar/contexts/collection-governance/collection-manager/application/queries"
	"bazaar/contexts/collection-governance/collection-manager/domain/entities"
	domainerrors "bazaar/contexts/collection-governance/collection-manager/domain/errors"
	httptransport "bazaar/contexts/collection-governance/collection-manager/transport/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type Handler struct {
	CreateCollection      commands.CreateCollectionUseCase
	ManageCollection      commands.ManageCollectionUseCase
	SetAllowedOperation   commands.SetAllowedOperationUseCase
	ListAllowedOperations queries.ListAllowedOperationsUseCase
	Logger                *slog.Logger
}

// CreateCollectionHandler godoc
// @Summary Deploy a collection registry
// @Description Relays a salted initialization payload to the factory through the forwarder.
// @Tags collection-manager
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Owner account address"
// @Param request body httptransport.CreateCollectionRequest true "Deployment"
// @Success 200 {object} httptransport.CreateCollectionResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /v1/governance/collections [post]
func (h Handler) CreateCollectionHandler(ctx context.Context, caller string, req httptransport.CreateCollectionRequest) (httptransport.CreateCollectionResponse, error) {
	callerAddress, err := parseAddress(caller)
	if err != nil {
		return httptransport.CreateCollectionResponse{}, err
	}
	forwarder, err := parseAddress(req.Forwarder)
	if err != nil {
		return httptransport.CreateCollectionResponse{}, err
	}
	factory, err := parseAddress(req.Factory)
	if err != nil {
		return httptransport.CreateCollectionResponse{}, err
	}
	salt, err := parseHash(req.Salt)
	if err != nil {
		return httptransport.CreateCollectionResponse{}, err
	}

	result, err := h.CreateCollection.Execute(ctx, commands.CreateCollectionCommand{
		Caller:    callerAddress,
		Forwarder: forwarder,
		Factory:   factory,
		Salt:      salt,
		Name:      req.Name,
		Symbol:    req.Symbol,
		BaseURI:   req.BaseURI,
	})
	if err != nil {
		application.ResolveLogger(h.Logger).Error("create collection request failed",
			"event", "http_create_collection_failed",
			"module", "collection-governance/collection-manager",
			"layer", "transport",
			"factory", req.Factory,
			"error", err.Error(),
		)
		return httptransport.CreateCollectionResponse{}, err
	}
	return httptransport.CreateCollectionResponse{Deployed: result.Deployed.Hex()}, nil
}

// ManageCollectionHandler godoc
// @Summary Administer a collection
// @Description Probes the target for the collection identity tag, then relays the call data blindly.
// @Tags collection-manager
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Owner account address"
// @Param request body httptransport.ManageCollectionRequest true "Administrative call"
// @Success 200 {object} httptransport.ManageCollectionResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /v1/governance/collections/manage [post]
func (h Handler) ManageCollectionHandler(ctx context.Context, caller string, req httptransport.ManageCollectionRequest) (httptransport.ManageCollectionResponse, error) {
	callerAddress, err := parseAddress(caller)
	if err != nil {
		return httptransport.ManageCollectionResponse{}, err
	}
	forwarder, err := parseAddress(req.Forwarder)
	if err != nil {
		return httptransport.ManageCollectionResponse{}, err
	}
	collection, err := parseAddress(req.Collection)
	if err != nil {
		return httptransport.ManageCollectionResponse{}, err
	}
	callData, err := hexutil.Decode(strings.TrimSpace(req.CallData))
	if err != nil {
		return httptransport.ManageCollectionResponse{}, domainerrors.ErrInvalidInput
	}

	result, err := h.ManageCollection.Execute(ctx, commands.ManageCollectionCommand{
		Caller:     callerAddress,
		Forwarder:  forwarder,
		Collection: collection,
		CallData:   callData,
	})
	if err != nil {
		application.ResolveLogger(h.Logger).Error("manage collection request failed",
			"event", "http_manage_collection_failed",
			"module", "collection-governance/collection-manager",
			"layer", "transport",
			"collection", req.Collection,
			"error", err.Error(),
		)
		return httptransport.ManageCollectionResponse{}, err
	}
	return httptransport.ManageCollectionResponse{ReturnData: hexutil.Encode(result.ReturnData)}, nil
}

// SetAllowedOperationHandler godoc
// @Summary Toggle one allow-list selector
// @Tags collection-manager
// @Accept json
// @Produce json
// @Param X-Caller-Address header string true "Owner account address"
// @Param request body httptransport.SetAllowedOperationRequest true "Allow-list entry"
// @Success 200 {object} httptransport.AllowedOperationPayload
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /v1/governance/allowed-operations [post]
func (h Handler) SetAllowedOperationHandler(ctx context.Context, caller string, req httptransport.SetAllowedOperationRequest) (httptransport.AllowedOperationPayload, error) {
	callerAddress, err := parseAddress(caller)
	if err != nil {
		return httptransport.AllowedOperationPayload{}, err
	}
	selector, err := parseSelector(req.Selector)
	if err != nil {
		return httptransport.AllowedOperationPayload{}, err
	}

	operation, err := h.SetAllowedOperation.Execute(ctx, commands.SetAllowedOperationCommand{
		Caller:   callerAddress,
		Selector: selector,
		Allowed:  req.Allowed,
	})
	if err != nil {
		return httptransport.AllowedOperationPayload{}, err
	}
	return mapOperation(operation), nil
}

// ListAllowedOperationsHandler godoc
// @Summary List allow-list entries
// @Tags collection-manager
// @Produce json
// @Success 200 {object} httptransport.ListAllowedOperationsResponse
// @Router /v1/governance/allowed-operations [get]
func (h Handler) ListAllowedOperationsHandler(ctx context.Context) (httptransport.ListAllowedOperationsResponse, error) {
	result, err := h.ListAllowedOperations.Execute(ctx)
	if err != nil {
		return httptransport.ListAllowedOperationsResponse{}, err
	}
	items := make([]httptransport.AllowedOperationPayload, 0, len(result.Items))
	for _, operation := range result.Items {
		items = append(items, mapOperation(operation))
	}
	return httptransport.ListAllowedOperationsResponse{Items: items}, nil
}

func mapOperation(operation entities.AllowedOperation) httptransport.AllowedOperationPayload {
	return httptransport.AllowedOperationPayload{
		Selector:  "0x" + operation.Selector.Hex(),
		Allowed:   operation.Allowed,
		UpdatedAt: operation.UpdatedAt,
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

func parseSelector(raw string) (entities.Selector, error) {
	decoded, err := hexutil.Decode(strings.TrimSpace(raw))
	if err != nil || len(decoded) != 4 {
		return entities.Selector{}, domainerrors.ErrInvalidInput
	}
	var selector entities.Selector
	copy(selector[:], decoded)
	return selector, nil
}
