package apiErrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantStatus int
	}{
		{"grupo não encontrado", ErrCampaignGroupNotFound, http.StatusNotFound},
		{"alocação inválida", ErrInvalidAllocation, http.StatusUnprocessableEntity},
		{"drain em andamento", ErrDrainInProgress, http.StatusConflict},
		{"serviço externo", ErrExternalService, http.StatusBadGateway},
		{"código desconhecido", "XYZ_999", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			WriteError(rec, tt.code, "mensagem", map[string]string{"campo": "valor"})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body APIError
			require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "mensagem", body.Message)
		})
	}
}

func TestFromError(t *testing.T) {
	assert.Equal(t, ErrInternalServer, FromError(nil, ErrQueueWrite).Code)

	apiErr := FromError(errors.New("falhou"), ErrQueueWrite)
	assert.Equal(t, ErrQueueWrite, apiErr.Code)
	assert.Equal(t, "falhou", apiErr.Message)
}
