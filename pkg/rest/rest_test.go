package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coreason-ai/publisher/pkg/dlogger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(base string, opts ...Option) *Client {
	return New(base, append([]Option{
		Logger(dlogger.MustGetLogger(dlogger.LogLevelNone)),
		RetryInterval(time.Millisecond),
	}, opts...)...)
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "/things/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"thing"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, BearerToken("secret"))
	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.Get(context.Background(), "/things/42", &out))
	assert.Equal(t, "thing", out.Name)
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	require.NoError(t, c.Post(context.Background(), "/things", map[string]string{"k": "v"}, nil))
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	require.NoError(t, c.Get(context.Background(), "/flaky", nil))
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "no such draft", http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	err := c.Get(context.Background(), "/missing", nil)
	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestRetriesAreBounded(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL, MaxRetries(2))
	err := c.Get(context.Background(), "/down", nil)
	require.Error(t, err)
	assert.False(t, IsClientError(err))
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls)) // initial call + 2 retries
}
