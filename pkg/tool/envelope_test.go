package tool

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessEnvelopeShape(t *testing.T) {
	started := time.Now().Add(-25 * time.Millisecond)
	resp := Success("search_repositories", map[string]any{"total_count": 12}, started)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, true, decoded["ok"])
	assert.NotNil(t, decoded["data"])
	meta := decoded["meta"].(map[string]any)
	assert.Equal(t, "search_repositories", meta["tool"])
	assert.NotEmpty(t, meta["timestamp"])
	assert.Nil(t, decoded["error"])
}

func TestFailureEnvelope_KnownKindGetsSuggestions(t *testing.T) {
	resp := Failure("get_file_contents", Errorf(KindVendorNotFound, "branch %q not found", "missing"), time.Now())

	require.NotNil(t, resp.Error)
	assert.False(t, resp.OK)
	assert.Equal(t, KindVendorNotFound, resp.Error.Kind)
	assert.NotEmpty(t, resp.Error.Suggestions, "recoverable kinds must carry suggestions")
}

func TestFailureEnvelope_RateLimitCarriesResetAt(t *testing.T) {
	reset := time.Unix(1924992000, 0).UTC()
	err := Errorf(KindVendorRateLimit, "rate limited")
	err.ResetAt = reset

	resp := Failure("search_news", err, time.Now())

	require.NotNil(t, resp.Error.ResetAt)
	assert.True(t, resp.Error.ResetAt.Equal(reset))
}

func TestFailureEnvelope_UnclassifiedBecomesInternal(t *testing.T) {
	resp := Failure("push_files", errors.New("dial tcp: connection refused"), time.Now())

	assert.Equal(t, KindInternal, resp.Error.Kind)
	assert.Contains(t, resp.Error.Message, "connection refused")
}

func TestWrap_PreservesExistingClassification(t *testing.T) {
	original := Errorf(KindVendorConflict, "stale sha")
	wrapped := Wrap(KindInternal, original)
	assert.Equal(t, KindVendorConflict, wrapped.Kind)
}

func TestWrap_SupportsErrorsAs(t *testing.T) {
	base := errors.New("boom")
	wrapped := Wrap(KindVendorGeneric, base)
	assert.True(t, errors.Is(wrapped, base))
}
