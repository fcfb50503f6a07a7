package service

import (
	"context"
	"testing"

	"github.com/mundocomputo/authd/internal/auth/store"
	"github.com/mundocomputo/authd/pkg/guard"
	"github.com/stretchr/testify/require"
)

func TestGetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("profile without role reports nil role", func(t *testing.T) {
		st := newTestStore(t)
		seedProfile(t, st, "user@mundocomputo.cl")

		svc := &SessionService{Store: st}
		info, err := svc.GetSession(ctx, "user@mundocomputo.cl")
		require.NoError(t, err)
		require.Equal(t, "user@mundocomputo.cl", info.Email)
		require.Nil(t, info.Role)
		require.False(t, info.MFAVerified)
	})

	t.Run("assigned role and verification state come back", func(t *testing.T) {
		st := newTestStore(t)
		p := seedProfile(t, st, "user@mundocomputo.cl")

		require.NoError(t, st.Profiles().SetRole(ctx, p.ID, guard.RoleSales))
		require.NoError(t, st.Profiles().CompleteVerification(ctx, p.ID))

		svc := &SessionService{Store: st}
		info, err := svc.GetSession(ctx, "user@mundocomputo.cl")
		require.NoError(t, err)
		require.NotNil(t, info.Role)
		require.Equal(t, guard.RoleSales, *info.Role)
		require.True(t, info.MFAVerified)
	})

	t.Run("unknown email maps to not found", func(t *testing.T) {
		st := newTestStore(t)

		svc := &SessionService{Store: st}
		_, err := svc.GetSession(ctx, "ghost@mundocomputo.cl")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
