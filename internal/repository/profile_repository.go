package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/marketplace-payments/internal/model"
)

const profileColumns = `
	id,
	first_name,
	last_name,
	profession,
	balance,
	type,
	created_at,
	updated_at
`

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, id int64) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+profileColumns+`
		FROM profiles
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &profile, nil
}

func (r *ProfileRepository) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	profiles := []model.Profile{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT ` + profileColumns + `
		FROM profiles
		ORDER BY id ASC
	`).Scan(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// ApplyDeposit credits amount to the profile. The balance guard is
// re-evaluated under the row lock so a concurrent payment cannot slip
// between the check and the write.
func (r *ProfileRepository) ApplyDeposit(ctx context.Context, profileID int64, amount decimal.Decimal, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProfiles(tx, profileID); err != nil {
			return err
		}

		res := tx.Exec(`
			UPDATE profiles
			SET balance = ROUND(balance + ?, 2), updated_at = ?
			WHERE id = ? AND balance >= ?
		`, amount, at, profileID, amount)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrConflict
		}
		return nil
	})
}

// lockProfiles takes row locks in ascending id order so that two
// transactions touching the same pair never deadlock. Dialects without
// row locking drop the FOR UPDATE clause.
func lockProfiles(tx *gorm.DB, ids ...int64) error {
	var locked []int64
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Table("profiles").
		Where("id IN ?", ids).
		Order("id ASC").
		Pluck("id", &locked).Error
	if err != nil {
		return err
	}
	if len(locked) != len(uniqueIDs(ids)) {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func uniqueIDs(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
