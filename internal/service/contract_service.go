package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nurpe/marketplace-payments/internal/model"
)

type ContractService struct {
	repo ContractRepository
}

func NewContractService(repo ContractRepository) *ContractService {
	return &ContractService{repo: repo}
}

// GetContract reports ErrNotFound both for unknown ids and for contracts
// the principal is not a party to.
func (s *ContractService) GetContract(ctx context.Context, principal model.Profile, id int64) (*model.Contract, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	contract, err := s.repo.GetContract(ctx, id, model.OwnershipOf(principal))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

func (s *ContractService) ListActiveContracts(ctx context.Context, principal model.Profile) ([]model.Contract, error) {
	return s.repo.ListActiveContracts(ctx, model.OwnershipOf(principal))
}
