package tool

import (
	"encoding/json"
	"time"
)

// Response is the uniform envelope returned for every tool call.
// Exactly one of Data (ok=true) or Error (ok=false) is populated.
// Always JSON-serializable; credentials never appear in it.
type Response struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Meta  Meta       `json:"meta"`
	Error *ErrorInfo `json:"error,omitempty"`
}

// Meta carries call metadata for auditing.
type Meta struct {
	Tool      string    `json:"tool"`
	Timestamp time.Time `json:"timestamp"`
	ElapsedMS int64     `json:"elapsed_ms"`
}

// ErrorInfo is the serialized form of a taxonomy error.
type ErrorInfo struct {
	Kind         Kind            `json:"kind"`
	Message      string          `json:"message"`
	Suggestions  []string        `json:"suggestions,omitempty"`
	VendorDetail json.RawMessage `json:"vendor_detail,omitempty"`
	ResetAt      *time.Time      `json:"reset_at,omitempty"`
}

// Success builds a success envelope around the handler's data.
func Success(toolName string, data any, started time.Time) *Response {
	return &Response{
		OK:   true,
		Data: data,
		Meta: meta(toolName, started),
	}
}

// Failure builds a failure envelope from any error, classifying unanticipated
// errors as internal. Known recoverable kinds always carry at least one
// suggestion.
func Failure(toolName string, err error, started time.Time) *Response {
	te := AsError(err)
	info := &ErrorInfo{
		Kind:         te.Kind,
		Message:      te.Message,
		Suggestions:  te.Suggestions,
		VendorDetail: te.VendorDetail,
	}
	if len(info.Suggestions) == 0 {
		info.Suggestions = defaultSuggestions(te.Kind)
	}
	if !te.ResetAt.IsZero() {
		reset := te.ResetAt
		info.ResetAt = &reset
	}
	return &Response{
		OK:    false,
		Meta:  meta(toolName, started),
		Error: info,
	}
}

func meta(toolName string, started time.Time) Meta {
	now := time.Now().UTC()
	m := Meta{Tool: toolName, Timestamp: now}
	if !started.IsZero() {
		m.ElapsedMS = now.Sub(started).Milliseconds()
	}
	return m
}
