package commands

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	MimePNG = "image/png"
	// PNGDataURIPrefix prefixes every generated image value.
	PNGDataURIPrefix = "data:" + MimePNG + ";base64,"
)

// EncodeDataURI returns the base64 data URI for PNG bytes.
func EncodeDataURI(pngData []byte) string {
	return EncodeDataURIWithType(MimePNG, pngData)
}

// EncodeDataURIWithType returns a base64 data URI for data of the given media type.
func EncodeDataURIWithType(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its media type and payload.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI has no payload separator")
	}
	mediaType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URI payload: %w", err)
	}
	return mediaType, data, nil
}
