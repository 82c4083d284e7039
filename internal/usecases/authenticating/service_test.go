package authenticating

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-manager-api/internal/config"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/pkg/apiErrors"
)

func TestService_ValidateToken(t *testing.T) {
	service := NewService(config.Auth{Secret: "segredo"})

	token, err := service.SignToken(domain.Claims{UserID: 1, UserRoleID: 3, ClientID: "cli-1"}, time.Hour)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)

	require.NoError(t, err)
	assert.Equal(t, "cli-1", claims.ClientID)
	assert.Equal(t, 3, claims.UserRoleID)
}

func TestService_ValidateToken_Errors(t *testing.T) {
	service := NewService(config.Auth{Secret: "segredo"})

	expired, _ := service.SignToken(domain.Claims{ClientID: "cli-1"}, -time.Minute)
	noClient, _ := service.SignToken(domain.Claims{UserID: 1}, time.Hour)
	otherSecret, _ := NewService(config.Auth{Secret: "outro"}).SignToken(domain.Claims{ClientID: "cli-1"}, time.Hour)
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, domain.Claims{ClientID: "cli-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name     string
		token    string
		wantErr  error
		wantCode string
	}{
		{"token expirado", expired, ErrExpiredToken, apiErrors.ErrExpiredToken},
		{"sem client_id", noClient, ErrMissingClient, apiErrors.ErrInvalidToken},
		{"assinado com outro segredo", otherSecret, ErrInvalidToken, apiErrors.ErrInvalidToken},
		{"algoritmo none", unsigned, ErrInvalidToken, apiErrors.ErrInvalidToken},
		{"lixo", "abc.def.ghi", ErrInvalidToken, apiErrors.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateToken(tt.token)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsAuthorizationError(err))

			var authErr *AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.wantCode, authErr.Code)
		})
	}
}

func TestService_MissingSecret(t *testing.T) {
	service := NewService(config.Auth{})

	_, err := service.ValidateToken("qualquer")
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = service.SignToken(domain.Claims{}, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}
