package driveclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/pubplus-report-sync/internal/config"
)

func newTestClient(tokenURL string) *Client {
	cfg := &config.Config{}
	cfg.Drive.AccessToken = "token-antigo"
	cfg.Drive.RefreshToken = "refresh-token"
	cfg.Drive.ClientID = "client-id"
	cfg.Drive.ClientSecret = "client-secret"

	client := NewClient(cfg)
	client.tokenURL = tokenURL
	return client
}

func TestClient_do_ReenviaCorpoAposRenovarToken(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
		w.Write([]byte(`{"access_token": "token-novo"}`))
	}))
	defer tokenServer.Close()

	var bodies []string
	var authorizations []string
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		authorizations = append(authorizations, r.Header.Get("Authorization"))

		if len(bodies) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer apiServer.Close()

	client := newTestClient(tokenServer.URL)

	payload := map[string]any{"values": [][]string{{"2024-01-01", "12345"}}}
	_, status, err := client.PutJSON(apiServer.URL, payload)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	// A segunda tentativa precisa carregar o mesmo corpo da primeira,
	// agora com o token renovado
	require.Len(t, bodies, 2)
	assert.NotEmpty(t, bodies[0])
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, "Bearer token-antigo", authorizations[0])
	assert.Equal(t, "Bearer token-novo", authorizations[1])
}

func TestClient_do_NaoRepeteSemRefreshToken(t *testing.T) {
	var requests int
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer apiServer.Close()

	cfg := &config.Config{}
	cfg.Drive.AccessToken = "token-antigo"
	client := NewClient(cfg)
	client.httpClient.Timeout = 5 * time.Second

	_, status, err := client.PostJSON(apiServer.URL, map[string]any{"name": "relatorio"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, 1, requests)
}
