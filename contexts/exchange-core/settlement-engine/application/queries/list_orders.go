package queries

import (
	"context"

	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	"bazaar/contexts/exchange-core/settlement-engine/ports"

	"github.com/ethereum/go-ethereum/common"
)

type ListOrdersQuery struct {
	AssetContract common.Address
	Seller        common.Address
	Cursor        string
	Limit         int
}

type ListOrdersResult struct {
	Items      []entities.Order
	NextCursor string
}

type ListOrdersUseCase struct {
	Orders ports.OrderRepository
}

func (u ListOrdersUseCase) Execute(ctx context.Context, query ListOrdersQuery) (ListOrdersResult, error) {
	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	items, nextCursor, err := u.Orders.ListOrders(ctx, ports.OrderListFilter{
		AssetContract: query.AssetContract,
		Seller:        query.Seller,
		Cursor:        query.Cursor,
		Limit:         limit,
	})
	if err != nil {
		return ListOrdersResult{}, err
	}
	return ListOrdersResult{Items: items, NextCursor: nextCursor}, nil
}
