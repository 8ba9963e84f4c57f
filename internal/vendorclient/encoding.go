package vendorclient

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// This file is the named text/binary crossing for vendor content fields.
// Vendors (GitHub's contents API in particular) carry file bodies as base64,
// sometimes with embedded newlines. Decoding happens exactly once on read and
// encoding exactly once on write; both use standard padded base64 so the
// round trip is lossless for arbitrary UTF-8 content.

// DecodeFileContent converts a vendor base64 content field into raw text.
// Whitespace and newlines inside the encoded payload are tolerated.
func DecodeFileContent(encoded string) (string, error) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, encoded)

	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return "", fmt.Errorf("decoding base64 content: %w", err)
	}
	return string(raw), nil
}

// EncodeFileContent converts raw text into the padded base64 form vendors
// expect on write.
func EncodeFileContent(content string) string {
	return base64.StdEncoding.EncodeToString([]byte(content))
}
