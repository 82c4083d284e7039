package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/justinas/alice"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/campaign-manager-api/pkg/apiErrors"
)

type fakeValidator struct {
	claims *domain.Claims
	err    error
}

func (f fakeValidator) ValidateToken(string) (*domain.Claims, error) {
	return f.claims, f.err
}

func okHandler(t *testing.T, wantClient string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantClient != "" {
			claims, ok := ClaimsFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, wantClient, claims.ClientID)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware(t *testing.T) {
	valid := fakeValidator{claims: &domain.Claims{ClientID: "cli-1", UserRoleID: RoleClient}}
	expired := fakeValidator{err: authenticating.NewAuthError(authenticating.ErrExpiredToken, apiErrors.ErrExpiredToken, "")}

	tests := []struct {
		name       string
		validator  fakeValidator
		path       string
		header     string
		wantStatus int
	}{
		{"rota pública sem token", valid, "/healthcheck", "", http.StatusNoContent},
		{"métricas sem token", valid, "/metrics", "", http.StatusNoContent},
		{"sem header", valid, "/v1/jobs/completed", "", http.StatusUnauthorized},
		{"sem prefixo Bearer", valid, "/v1/jobs/completed", "abc", http.StatusUnauthorized},
		{"token expirado", expired, "/v1/jobs/completed", "Bearer abc", http.StatusUnauthorized},
		{"token válido", valid, "/v1/jobs/completed", "Bearer abc", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantClient := ""
			if tt.wantStatus == http.StatusNoContent && tt.header != "" {
				wantClient = "cli-1"
			}
			handler := AuthMiddleware(tt.validator)(okHandler(t, wantClient))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		role       int
		wantStatus int
	}{
		{"admin", RoleAdmin, http.StatusNoContent},
		{"operador", RoleOperator, http.StatusNoContent},
		{"cliente", RoleClient, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := fakeValidator{claims: &domain.Claims{ClientID: "cli-1", UserRoleID: tt.role}}
			handler := alice.New(AuthMiddleware(validator), AdminOrOperator()).Then(okHandler(t, ""))

			req := httptest.NewRequest(http.MethodPost, "/v1/campaign-groups/1/launch", nil)
			req.Header.Set("Authorization", "Bearer abc")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRoleMiddleware_WithoutClaims(t *testing.T) {
	rec := httptest.NewRecorder()

	AllRoles()(okHandler(t, "")).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/jobs/completed", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCors(t *testing.T) {
	handler := Cors()(okHandler(t, ""))

	req := httptest.NewRequest(http.MethodOptions, "/v1/jobs/completed", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/jobs/completed", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogPanicMiddleware(t *testing.T) {
	handler := alice.New(LoggingMiddleware(), LogPanicMiddleware()).ThenFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/jobs/completed", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}
