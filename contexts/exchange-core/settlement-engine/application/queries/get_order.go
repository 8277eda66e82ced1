package queries

import (
	"context"

	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	"bazaar/contexts/exchange-core/settlement-engine/ports"

	"github.com/ethereum/go-ethereum/common"
)

type GetOrderQuery struct {
	OrderID common.Hash
}

type GetOrderResult struct {
	Order entities.Order
}

type GetOrderUseCase struct {
	Orders ports.OrderRepository
}

func (u GetOrderUseCase) Execute(ctx context.Context, query GetOrderQuery) (GetOrderResult, error) {
	order, err := u.Orders.GetOrder(ctx, query.OrderID)
	if err != nil {
		return GetOrderResult{}, err
	}
	return GetOrderResult{Order: order}, nil
}
