package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nAllow: /\n"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"acme","count":2}`))
	}))
	defer srv.Close()

	var out struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	client := NewPoliteClient("test-bot/1.0")
	require.NoError(t, client.GetJSON(context.Background(), srv.URL+"/api", &out))
	require.Equal(t, "acme", out.Name)
	require.Equal(t, 2, out.Count)
}

func TestGetJSONNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nAllow: /\n"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewPoliteClient("test-bot/1.0")
	err := client.GetJSON(context.Background(), srv.URL+"/api", &struct{}{})

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, http.StatusNotFound, fe.Status)
}

func TestGetRetriesRateLimitedStatus(t *testing.T) {
	var apiCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nAllow: /\n"))
			return
		}
		if apiCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewPoliteClient("test-bot/1.0")
	require.NoError(t, client.GetJSON(context.Background(), srv.URL+"/api", &struct{}{}))
	require.Equal(t, int32(2), apiCalls.Load(), "first 429 retried once")
}

func TestGetBlockedByRobots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewPoliteClient("test-bot/1.0")
	err := client.GetJSON(context.Background(), srv.URL+"/private/data", &struct{}{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "robots.txt")
}

func TestGetEmptyURL(t *testing.T) {
	client := NewPoliteClient("test-bot/1.0")
	_, err := client.Get(context.Background(), "")
	require.Error(t, err)
}

func TestFetchErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	fe := &FetchError{Status: 503, Err: inner}
	require.ErrorIs(t, fe, inner)
	require.Contains(t, fe.Error(), "503")
}

func TestIsRetryableStatus(t *testing.T) {
	require.True(t, IsRetryableStatus(http.StatusTooManyRequests))
	require.True(t, IsRetryableStatus(http.StatusBadGateway))
	require.False(t, IsRetryableStatus(http.StatusNotFound))
	require.False(t, IsRetryableStatus(http.StatusOK))
}
