package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchUserSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(Account{Login: "alice", Name: "Alice Doe"})
	}))
	defer server.Close()

	account, err := NewClientWithBaseURL(server.URL).FetchUser(context.Background(), "gh-token")
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Login)
	assert.Equal(t, "Alice Doe", account.Name)
}

func TestFetchUserRejectsBadToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewClientWithBaseURL(server.URL).FetchUser(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestFetchUserRequiresLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Account{Name: "No Login"})
	}))
	defer server.Close()

	_, err := NewClientWithBaseURL(server.URL).FetchUser(context.Background(), "gh-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login")
}
