package postal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func viaCEPServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/ws/01001000/json/":
			_, _ = w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
		case "/ws/99999999/json/":
			_, _ = w.Write([]byte(`{"erro": true}`))
		case "/ws/88888888/json/":
			_, _ = w.Write([]byte(`{"erro": "true"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestViaCEPClient_Lookup(t *testing.T) {
	var calls atomic.Int32
	srv := viaCEPServer(t, &calls)
	c := NewViaCEPClient(srv.URL, time.Second, zap.NewNop())
	ctx := context.Background()

	got, err := c.Lookup(ctx, "01001-000")
	require.NoError(t, err)
	assert.Equal(t, &storefront.AddressLookupResult{
		CEP: "01001000", Street: "Praça da Sé", District: "Sé", City: "São Paulo", State: "SP",
	}, got)

	_, err = c.Lookup(ctx, "99999-999")
	assert.ErrorIs(t, err, storefront.ErrCEPNotFound)
	_, err = c.Lookup(ctx, "88888888")
	assert.ErrorIs(t, err, storefront.ErrCEPNotFound)

	_, err = c.Lookup(ctx, "12345678")
	assert.ErrorIs(t, err, storefront.ErrCEPLookupFailed)
	assert.Equal(t, "Erro ao buscar CEP. Verifique a conexão.", err.Error())

	before := calls.Load()
	_, err = c.Lookup(ctx, "1234-567")
	assert.ErrorIs(t, err, storefront.ErrCEPInvalidLength)
	assert.Equal(t, before, calls.Load(), "invalid CEP makes no request")
}

func TestViaCEPClient_ZeroCEPStaysLocal(t *testing.T) {
	var calls atomic.Int32
	srv := viaCEPServer(t, &calls)
	ctx := context.Background()

	_, err := NewViaCEPClient(srv.URL, time.Second, zap.NewNop()).Lookup(ctx, "00000000")
	assert.ErrorIs(t, err, storefront.ErrCEPInvalidLength)

	cached := NewCachedLookup(NewViaCEPClient(srv.URL, time.Second, zap.NewNop()),
		cache.NewInMemoryAddressCache(), time.Hour, nil, zap.NewNop())
	_, err = cached.Lookup(ctx, "00000-000")
	assert.ErrorIs(t, err, storefront.ErrCEPInvalidLength)

	assert.Equal(t, int32(0), calls.Load())
}

func TestViaCEPClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewViaCEPClient(srv.URL, time.Second, zap.NewNop()).Lookup(context.Background(), "01001000")
	assert.ErrorIs(t, err, storefront.ErrCEPLookupFailed)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (*storefront.AddressLookupResult, error) {
	return nil, errors.New("redis down")
}

func (failingCache) Set(context.Context, string, *storefront.AddressLookupResult, time.Duration) error {
	return errors.New("redis down")
}

func TestCachedLookup(t *testing.T) {
	var calls atomic.Int32
	srv := viaCEPServer(t, &calls)
	next := NewViaCEPClient(srv.URL, time.Second, zap.NewNop())
	l := NewCachedLookup(next, cache.NewInMemoryAddressCache(), time.Hour, nil, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := l.Lookup(ctx, "01001-000")
		require.NoError(t, err)
		assert.Equal(t, "SP", got.State)
	}
	assert.Equal(t, int32(1), calls.Load())

	for i := 0; i < 2; i++ {
		_, err := l.Lookup(ctx, "99999999")
		assert.ErrorIs(t, err, storefront.ErrCEPNotFound)
	}
	assert.Equal(t, int32(3), calls.Load(), "misses are not cached")

	_, err := l.Lookup(ctx, "abc")
	assert.ErrorIs(t, err, storefront.ErrCEPInvalidLength)
}

func TestCachedLookup_CacheFailureDegrades(t *testing.T) {
	var calls atomic.Int32
	srv := viaCEPServer(t, &calls)
	l := NewCachedLookup(NewViaCEPClient(srv.URL, time.Second, zap.NewNop()), failingCache{}, time.Hour, nil, zap.NewNop())

	got, err := l.Lookup(context.Background(), "01001000")
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", got.City)
}
