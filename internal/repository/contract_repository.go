package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/marketplace-payments/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// GetContract returns the contract only when owner is a party to it.
func (r *ContractRepository) GetContract(ctx context.Context, id int64, owner model.Ownership) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id, c.terms, c.status, c.client_id, c.contractor_id, c.created_at, c.updated_at
		FROM contracts c
		WHERE c.id = ? AND `+ownerClause(owner)+`
		LIMIT 1
	`, id, owner.ProfileID).Scan(&contract).Error
	if err != nil {
		return nil, err
	}
	if contract.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &contract, nil
}

func (r *ContractRepository) ListActiveContracts(ctx context.Context, owner model.Ownership) ([]model.Contract, error) {
	contracts := []model.Contract{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id, c.terms, c.status, c.client_id, c.contractor_id, c.created_at, c.updated_at
		FROM contracts c
		WHERE c.status <> ? AND `+ownerClause(owner)+`
		ORDER BY c.id ASC
	`, string(model.ContractStatusTerminated), owner.ProfileID).Scan(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

// ownerClause renders the ownership restriction against the contracts
// alias c. The column comes from model.OwnershipFor, never from input.
func ownerClause(owner model.Ownership) string {
	return "c." + owner.Column + " = ?"
}
