package cnpj

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/arremateai/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func newServer(t *testing.T, hits *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		switch strings.TrimPrefix(r.URL.Path, "/v1/cnpj/") {
		case "12345678000190":
			_, _ = w.Write([]byte(`{"status":"OK","cnpj":"12.345.678/0001-90","nome":"ALFA IMOVEIS LTDA","fantasia":"ALFA","situacao":"ATIVA","uf":"SP","municipio":"SAO PAULO","email":"contato@alfa.com.br"}`))
		case "11222333000181":
			_, _ = w.Write([]byte(`{"status":"OK","nome":"BETA LTDA","situacao":"BAIXADA"}`))
		case "99999999999999":
			_, _ = w.Write([]byte(`{"status":"ERROR","message":"CNPJ inválido"}`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
}

func newTestClient(srv *httptest.Server, cache *mocks.MockCache) *Client {
	httpClient := circuitbreaker.NewHTTPClient(circuitbreaker.DefaultHTTPClientSettings("receitaws"), newTestLogger())
	var c *Client
	if cache == nil {
		c = NewClient(httpClient, srv.URL+"/v1/cnpj", nil, time.Hour, newTestLogger())
	} else {
		c = NewClient(httpClient, srv.URL+"/v1/cnpj", cache, time.Hour, newTestLogger())
	}
	return c
}

func TestLookup_ActiveCompany(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)
	defer srv.Close()
	c := newTestClient(srv, nil)

	info, err := c.Lookup(context.Background(), "12345678000190")

	require.NoError(t, err)
	assert.Equal(t, "ALFA IMOVEIS LTDA", info.RazaoSocial)
	assert.Equal(t, "ALFA", info.NomeFantasia)
	assert.True(t, info.Active())
}

func TestLookup_InactiveCompany(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)
	defer srv.Close()
	c := newTestClient(srv, nil)

	info, err := c.Lookup(context.Background(), "11222333000181")

	require.NoError(t, err)
	assert.False(t, info.Active())
	assert.Equal(t, "11222333000181", info.CNPJ)
}

func TestLookup_Errors(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)
	defer srv.Close()
	c := newTestClient(srv, nil)

	_, err := c.Lookup(context.Background(), "99999999999999")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	_, err = c.Lookup(context.Background(), "00000000000000")
	assert.True(t, circuitbreaker.IsStatus(err, http.StatusTooManyRequests), "got %v", err)
}

func TestLookup_UsesCache(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)
	defer srv.Close()
	cache := mocks.NewMockCache()
	c := newTestClient(srv, cache)

	for i := 0; i < 3; i++ {
		info, err := c.Lookup(context.Background(), "12345678000190")
		require.NoError(t, err)
		assert.Equal(t, "ALFA IMOVEIS LTDA", info.RazaoSocial)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.True(t, cache.Has("cnpj:12345678000190"))
}
