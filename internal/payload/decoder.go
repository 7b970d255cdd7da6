// Package payload decodes inbound encoded documents into raw bytes and
// identifies their format.
package payload

import (
	"encoding/base64"

	"github.com/pagelens/pagelens/internal/domain"
)

// Format represents a supported document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
	// TIFF indicates a TIFF image.
	TIFF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case TIFF:
		return "TIFF"
	default:
		return "Unknown"
	}
}

// Decode converts a base64-encoded document into its raw bytes and detected
// format. Malformed or empty input yields a malformed-payload error; bytes
// with an unrecognized magic number yield an unsupported-document error.
// Deeper structural validity is left to the extraction engine.
func Decode(encoded string) ([]byte, Format, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, Unknown, domain.MalformedPayloadError("payload is not valid base64", err)
	}
	if len(data) == 0 {
		return nil, Unknown, domain.MalformedPayloadError("payload decodes to an empty document", nil)
	}

	format := DetectFormat(data)
	if format == Unknown {
		return nil, Unknown, domain.UnsupportedDocumentError("unrecognized document format", nil)
	}

	return data, format, nil
}

// DetectFormat checks magic bytes to determine the document format.
// Returns Unknown if the format cannot be determined.
func DetectFormat(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return PDF
	}

	// PNG magic: \x89PNG
	if data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return PNG
	}

	// JPEG magic: \xFF\xD8\xFF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return JPEG
	}

	// TIFF magic, little endian (II*\x00) or big endian (MM\x00*)
	if data[0] == 'I' && data[1] == 'I' && data[2] == 0x2A && data[3] == 0x00 {
		return TIFF
	}
	if data[0] == 'M' && data[1] == 'M' && data[2] == 0x00 && data[3] == 0x2A {
		return TIFF
	}

	return Unknown
}
