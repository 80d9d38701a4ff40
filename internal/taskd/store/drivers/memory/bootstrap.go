package memory

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskd/internal/taskd/store"
)

type bootstrapRepo struct {
	run runner
}

func (r *bootstrapRepo) Claim(ctx context.Context, accountID string, at time.Time) error {
	return r.run(func(st *state) error {
		if st.bootstrap != nil {
			return store.ErrAlreadyExists
		}
		st.bootstrap = &store.BootstrapClaim{AccountID: accountID, ClaimedAt: at.UTC()}
		return nil
	})
}

func (r *bootstrapRepo) Claimed(ctx context.Context) (bool, error) {
	var claimed bool
	err := r.run(func(st *state) error {
		claimed = st.bootstrap != nil
		return nil
	})
	return claimed, err
}

func (r *bootstrapRepo) GetClaim(ctx context.Context) (store.BootstrapClaim, error) {
	var c store.BootstrapClaim
	err := r.run(func(st *state) error {
		if st.bootstrap == nil {
			return store.ErrNotFound
		}
		c = *st.bootstrap
		return nil
	})
	return c, err
}
