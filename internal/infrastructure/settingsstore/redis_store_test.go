package settingsstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer client.Close()

	ctx := context.Background()
	store := NewRedisStore(client, "")

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, storefront.ErrSettingsNotFound)

	snap := storefront.DefaultSnapshot()
	snap.Settings.AdminWhatsApp2 = "5521988887777"
	require.NoError(t, store.Save(ctx, snap))
	assert.True(t, m.Exists(DefaultRedisKey))
	assert.Zero(t, m.TTL(DefaultRedisKey))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5521988887777", got.Settings.AdminWhatsApp2)

	m.Close()
	_, err = store.Get(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, storefront.ErrSettingsNotFound)
}
