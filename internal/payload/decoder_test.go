package payload

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelens/pagelens/internal/domain"
)

func TestDecodeRoundTrip(t *testing.T) {
	original := []byte("%PDF-1.7\nsome document body")
	encoded := base64.StdEncoding.EncodeToString(original)

	data, format, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, data)
	assert.Equal(t, PDF, format)

	// Re-encoding the decoded bytes reproduces the original string.
	assert.Equal(t, encoded, base64.StdEncoding.EncodeToString(data))
}

func TestDecodeMalformed(t *testing.T) {
	_, _, err := Decode("not@valid@base64!!!")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeMalformedPayload, domain.TypeOf(err))
}

func TestDecodeEmptyDocument(t *testing.T) {
	// Base64 of zero bytes decodes cleanly but carries no document.
	_, _, err := Decode("")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeMalformedPayload, domain.TypeOf(err))
}

func TestDecodeUnrecognizedFormat(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("plain text, not a document"))
	_, _, err := Decode(encoded)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnsupportedDocument, domain.TypeOf(err))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"pdf", []byte("%PDF-1.4"), PDF},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, PNG},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, JPEG},
		{"tiff little endian", []byte{'I', 'I', 0x2A, 0x00}, TIFF},
		{"tiff big endian", []byte{'M', 'M', 0x00, 0x2A}, TIFF},
		{"unknown", []byte("hello world"), Unknown},
		{"too short", []byte{0x89, 'P'}, Unknown},
		{"empty", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.data))
		})
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "PDF", PDF.String())
	assert.Equal(t, "PNG", PNG.String())
	assert.Equal(t, "JPEG", JPEG.String())
	assert.Equal(t, "TIFF", TIFF.String())
	assert.Equal(t, "Unknown", Unknown.String())
}
