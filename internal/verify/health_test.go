package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPasses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res := NewChecker().Check(context.Background(), srv.URL)

	assert.True(t, res.Passed)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, res.Error)
	assert.Equal(t, srv.URL, res.URL)
}

func TestCheckFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := NewChecker().Check(context.Background(), srv.URL)

	assert.False(t, res.Passed)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestCheckRedirectStatusNotPassed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	res := NewChecker().Check(context.Background(), srv.URL)
	assert.False(t, res.Passed)
}

func TestCheckUnreachableHost(t *testing.T) {
	res := NewChecker().Check(context.Background(), "http://127.0.0.1:1/health")

	assert.False(t, res.Passed)
	assert.NotEmpty(t, res.Error)
	assert.Zero(t, res.StatusCode)
}

func TestCheckInvalidURL(t *testing.T) {
	res := NewChecker().Check(context.Background(), "://not-a-url")

	assert.False(t, res.Passed)
	assert.NotEmpty(t, res.Error)
}
