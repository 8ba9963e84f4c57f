package vendorclient

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/toolgate/toolgate/pkg/tool"
)

// classify maps a non-2xx vendor status into the failure taxonomy, preserving
// the raw error body for diagnostics.
func classify(status int, header http.Header, body []byte) *tool.Error {
	kind := kindForStatus(status, header)

	err := tool.Errorf(kind, "vendor returned %d: %s", status, vendorMessage(body, status))
	err.VendorDetail = json.RawMessage(body)

	if kind == tool.KindVendorRateLimit {
		err.ResetAt = rateLimitReset(header)
	}
	return err
}

func kindForStatus(status int, header http.Header) tool.Kind {
	switch status {
	case http.StatusUnauthorized:
		return tool.KindVendorAuth
	case http.StatusForbidden:
		// GitHub signals primary rate limiting with 403 + a zeroed
		// remaining counter rather than 429.
		if header.Get("X-RateLimit-Remaining") == "0" {
			return tool.KindVendorRateLimit
		}
		return tool.KindVendorPermission
	case http.StatusNotFound:
		return tool.KindVendorNotFound
	case http.StatusConflict:
		return tool.KindVendorConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return tool.KindValidation
	case http.StatusTooManyRequests:
		return tool.KindVendorRateLimit
	}
	return tool.KindVendorGeneric
}

// vendorMessage extracts a human-readable message from common vendor error
// body shapes ({"message": ...} or {"error": ...}), falling back to the
// status text.
func vendorMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(status)
}

// rateLimitReset derives the reset time from vendor headers:
// X-RateLimit-Reset (unix seconds) first, Retry-After (delta seconds) second.
// Zero when the vendor supplies neither.
func rateLimitReset(header http.Header) time.Time {
	if raw := header.Get("X-RateLimit-Reset"); raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return time.Unix(unix, 0).UTC()
		}
	}
	if raw := header.Get("Retry-After"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil {
			return time.Now().UTC().Add(time.Duration(seconds) * time.Second)
		}
	}
	return time.Time{}
}
