package circuitbreaker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestGetJSON_Decodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"nome":"EMPRESA LTDA"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(DefaultHTTPClientSettings("test"), newTestLogger())
	var out struct {
		Nome string `json:"nome"`
	}
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, "EMPRESA LTDA", out.Nome)
}

func TestGetJSON_ServerErrorsTripBreaker(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	settings := DefaultHTTPClientSettings("test")
	settings.FailureThreshold = 2
	settings.BreakerTimeout = time.Minute
	c := NewHTTPClient(settings, newTestLogger())

	var out map[string]interface{}
	for i := 0; i < 2; i++ {
		err := c.GetJSON(context.Background(), srv.URL, &out)
		assert.True(t, IsStatus(err, http.StatusBadGateway), "got %v", err)
	}

	err := c.GetJSON(context.Background(), srv.URL, &out)
	assert.True(t, IsOpen(err), "expected open breaker, got %v", err)
	assert.Equal(t, gobreaker.StateOpen, c.State())
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestGetJSON_ClientErrorsDoNotTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	settings := DefaultHTTPClientSettings("test")
	settings.FailureThreshold = 1
	c := NewHTTPClient(settings, newTestLogger())

	var out map[string]interface{}
	for i := 0; i < 3; i++ {
		err := c.GetJSON(context.Background(), srv.URL, &out)
		assert.True(t, IsStatus(err, http.StatusNotFound))
	}
	assert.Equal(t, gobreaker.StateClosed, c.State())
}
