package amazonclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-manager-api/internal/config"
)

type fakeSecretStorage struct {
	saved map[string]string
}

func (f *fakeSecretStorage) ListSecrets(string) (map[string]string, error) {
	return f.saved, nil
}

func (f *fakeSecretStorage) AddOrUpdateSecret(_, name, content string) error {
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	f.saved[name] = content
	return nil
}

func newTokenServer(t *testing.T, calls *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "refresh-1", r.Form.Get("refresh_token"))
		_, _ = w.Write([]byte(`{"access_token": "novo-token", "refresh_token": "refresh-2", "token_type": "bearer", "expires_in": 3600}`))
	}))
}

func TestTokenManager_CredentialsRefreshesEmptyToken(t *testing.T) {
	calls := 0
	server := newTokenServer(t, &calls)
	defer server.Close()

	cfg := &config.Config{}
	cfg.Amazon.TokenURL = server.URL
	cfg.Amazon.ClientID = "client-1"
	cfg.Amazon.RefreshToken = "refresh-1"
	cfg.Render.ServiceID = "srv-1"

	secrets := &fakeSecretStorage{}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager(cfg, secrets)
	tm.httpClient = server.Client()
	tm.now = func() time.Time { return now }

	creds, err := tm.Credentials(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "client-1", creds.ClientID)
	assert.Equal(t, "novo-token", creds.AccessToken)
	assert.Equal(t, "refresh-2", cfg.Amazon.RefreshToken)
	assert.Equal(t, now.Add(55*time.Minute), cfg.Amazon.TokenExpiresAt)
	assert.Equal(t, "novo-token", secrets.saved[config.AmazonAccessTokenSecret])
}

func TestTokenManager_EnsureValidTokenKeepsFreshToken(t *testing.T) {
	calls := 0
	server := newTokenServer(t, &calls)
	defer server.Close()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cfg := &config.Config{}
	cfg.Amazon.TokenURL = server.URL
	cfg.Amazon.AccessToken = "atual"
	cfg.Amazon.TokenExpiresAt = now.Add(10 * time.Minute)

	tm := NewTokenManager(cfg, nil)
	tm.httpClient = server.Client()
	tm.now = func() time.Time { return now }

	require.NoError(t, tm.EnsureValidToken(context.Background()))
	assert.Equal(t, 0, calls)
}

func TestTokenManager_EnsureValidTokenRefreshesExpired(t *testing.T) {
	calls := 0
	server := newTokenServer(t, &calls)
	defer server.Close()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cfg := &config.Config{}
	cfg.Amazon.TokenURL = server.URL
	cfg.Amazon.AccessToken = "velho"
	cfg.Amazon.RefreshToken = "refresh-1"
	cfg.Amazon.TokenExpiresAt = now.Add(-time.Minute)

	tm := NewTokenManager(cfg, nil)
	tm.httpClient = server.Client()
	tm.now = func() time.Time { return now }

	require.NoError(t, tm.EnsureValidToken(context.Background()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "novo-token", cfg.Amazon.AccessToken)
}

func TestRefreshAccessToken_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid_grant"}`))
	}))
	defer server.Close()

	_, err := RefreshAccessToken(context.Background(), server.Client(), server.URL, "c", "s", "r")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestRefreshAccessToken_EmptyRefreshToken(t *testing.T) {
	_, err := RefreshAccessToken(context.Background(), http.DefaultClient, "http://unused", "c", "s", "")

	assert.Error(t, err)
}

func TestCalculateTokenExpiration(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(55*time.Minute), CalculateTokenExpiration(now, 3600))
	assert.Equal(t, now.Add(100*time.Second), CalculateTokenExpiration(now, 200))
}
