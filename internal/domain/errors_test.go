package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorMessage(t *testing.T) {
	err := MalformedPayloadError("payload is not valid base64", errors.New("illegal byte"))
	assert.Equal(t, "[malformed_payload] payload is not valid base64: illegal byte", err.Error())

	bare := EngineUnavailableError("engine down", nil)
	assert.Equal(t, "[engine_unavailable] engine down", bare.Error())
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := UnsupportedDocumentError("bad document", cause)
	require.ErrorIs(t, err, cause)
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"malformed payload", MalformedPayloadError("m", nil), ErrorTypeMalformedPayload},
		{"unsupported document", UnsupportedDocumentError("m", nil), ErrorTypeUnsupportedDocument},
		{"engine unavailable", EngineUnavailableError("m", nil), ErrorTypeEngineUnavailable},
		{"artifact write", ArtifactWriteError("m", nil), ErrorTypeArtifactWrite},
		{"wrapped domain error", fmt.Errorf("context: %w", MalformedPayloadError("m", nil)), ErrorTypeMalformedPayload},
		{"plain error", errors.New("plain"), ErrorTypeInternal},
		{"nil", nil, ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}
