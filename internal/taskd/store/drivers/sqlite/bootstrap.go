package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskd/internal/taskd/store"
)

type bootstrapRepo struct {
	q *queries
}

func (r *bootstrapRepo) Claim(ctx context.Context, accountID string, at time.Time) error {
	_, err := r.q.db.ExecContext(ctx, claimBootstrap, accountID, at.UTC())
	return mapConstraint(err)
}

func (r *bootstrapRepo) Claimed(ctx context.Context) (bool, error) {
	var claimed bool
	err := r.q.db.QueryRowContext(ctx, bootstrapClaimed).Scan(&claimed)
	return claimed, err
}

func (r *bootstrapRepo) GetClaim(ctx context.Context) (store.BootstrapClaim, error) {
	var c store.BootstrapClaim
	err := r.q.db.QueryRowContext(ctx, getBootstrapClaim).Scan(&c.AccountID, &c.ClaimedAt)
	if err != nil {
		return store.BootstrapClaim{}, mapNotFound(err)
	}
	return c, nil
}
