package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/marketplace-payments/internal/model"
)

func TestGetProfile(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t, marketplace()))

	profile, err := repo.GetProfile(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Programmer", profile.Profession)
	assert.Equal(t, model.ProfileTypeContractor, profile.Type)
	assert.Equal(t, "Cy Coder", profile.FullName())

	_, err = repo.GetProfile(context.Background(), 404)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListProfilesOrderedByID(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t, marketplace()))

	profiles, err := repo.ListProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 4)
	for i, p := range profiles {
		assert.Equal(t, int64(i+1), p.ID)
	}
}

func TestApplyDepositCreditsBalance(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t, marketplace()))
	ctx := context.Background()

	require.NoError(t, repo.ApplyDeposit(ctx, 1, money("12.5"), time.Now().UTC()))

	profile, err := repo.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.True(t, profile.Balance.Equal(money("112.5")), "balance %s", profile.Balance)
}

func TestApplyDepositGuardsBalance(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t, marketplace()))
	ctx := context.Background()

	err := repo.ApplyDeposit(ctx, 1, money("100.01"), time.Now().UTC())
	assert.ErrorIs(t, err, ErrConflict)

	profile, err := repo.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.True(t, profile.Balance.Equal(money("100")))
}

func TestApplyDepositUnknownProfile(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t, marketplace()))

	err := repo.ApplyDeposit(context.Background(), 404, money("1"), time.Now().UTC())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
