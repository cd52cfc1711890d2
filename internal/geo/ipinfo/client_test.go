package ipinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastlabs/skycast/internal/geo"
)

func TestIPLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(`{"ip":"1.2.3.4","city":"北京市","region":"北京市","country":"CN","loc":"39.9042,116.4074"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	loc, err := client.IPLocation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", loc.IP)
	assert.Equal(t, "北京市", loc.City)
	assert.Equal(t, "CN", loc.Country)
}

func TestIPLocation_Token(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(`{"ip":"1.2.3.4"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Token: "secret"})

	_, err := client.IPLocation(context.Background())
	require.NoError(t, err)
}

func TestIPLocation_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	_, err := client.IPLocation(context.Background())
	assert.ErrorIs(t, err, geo.ErrNetwork)
}

func TestIPLocation_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	_, err := client.IPLocation(context.Background())
	assert.ErrorIs(t, err, geo.ErrParse)
}

func TestPublicIP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ip":"5.6.7.8"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	ip, err := client.PublicIP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5.6.7.8", ip)
}
