package queries

import (
	"context"

	"bazaar/contexts/collection-governance/collection-manager/domain/entities"
	"bazaar/contexts/collection-governance/collection-manager/ports"
)

type ListAllowedOperationsResult struct {
	Items []entities.AllowedOperation
}

type ListAllowedOperationsUseCase struct {
	Repo ports.AllowlistRepository
}

func (u ListAllowedOperationsUseCase) Execute(ctx context.Context) (ListAllowedOperationsResult, error) {
	items, err := u.Repo.ListAllowedOperations(ctx)
	if err != nil {
		return ListAllowedOperationsResult{}, err
	}
	return ListAllowedOperationsResult{Items: items}, nil
}
