package baidu

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastlabs/skycast/internal/geo"
)

func TestLocationText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1.2.3.4", r.URL.Query().Get("query"))
		assert.Equal(t, "6006", r.URL.Query().Get("resource_id"))
		_, _ = w.Write([]byte(`{"status":"0","data":[{"location":"新疆维吾尔自治区昌吉回族自治州昌吉市 电信"}]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	text, err := client.LocationText(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "新疆维吾尔自治区昌吉回族自治州昌吉市 电信", text)
}

func TestLocationText_NonZeroStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"1"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	_, err := client.LocationText(context.Background(), "1.2.3.4")
	assert.ErrorIs(t, err, geo.ErrParse)
}

func TestLocationText_EmptyLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"0","data":[{"location":"  "}]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	_, err := client.LocationText(context.Background(), "1.2.3.4")
	assert.ErrorIs(t, err, geo.ErrParse)
}

func TestLocationText_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	_, err := client.LocationText(context.Background(), "1.2.3.4")
	assert.ErrorIs(t, err, geo.ErrNetwork)
}

func TestLocationText_EmptyIP(t *testing.T) {
	client := NewClient(ClientConfig{})

	_, err := client.LocationText(context.Background(), "   ")
	assert.Error(t, err)
}
