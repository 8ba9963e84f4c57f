package greenapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolgate/toolgate/internal/vendorclient"
	"github.com/toolgate/toolgate/pkg/credentials"
	"github.com/toolgate/toolgate/pkg/tool"
)

func invoke(t *testing.T, handler http.HandlerFunc, toolName string, args map[string]any) (any, error) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	reg := tool.NewRegistry()
	New(vendorclient.New(), WithBaseURL(srv.URL)).Register(reg)
	desc := reg.Lookup(toolName)
	require.NotNil(t, desc)

	validated, err := desc.Args.Validate(args)
	require.NoError(t, err)
	return desc.Handler(context.Background(), tool.Invocation{
		Args: validated,
		Credentials: credentials.Bundle{
			CredentialInstance: "1101000001",
			CredentialToken:    "secret-token",
		},
	})
}

func TestSendMessage_PathEmbeddedAuth(t *testing.T) {
	var gotPath, gotAuth string
	var body map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"idMessage": "BAE5F4886F6F2D03"}`)
	}

	data, err := invoke(t, handler, "send_message", map[string]any{
		"chat": "919876543210", "message": "hello",
	})

	require.NoError(t, err)
	assert.Equal(t, "/waInstance1101000001/sendMessage/secret-token", gotPath)
	assert.Empty(t, gotAuth, "credentials live in the path, never in headers")
	assert.Empty(t, body["authorization"])
	assert.Equal(t, "919876543210@c.us", body["chatId"])
	assert.Equal(t, "hello", body["message"])
	assert.Equal(t, "BAE5F4886F6F2D03", data.(map[string]any)["idMessage"])
}

func TestGetChatHistory_CountDefault(t *testing.T) {
	var body map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/waInstance1101000001/getChatHistory/secret-token", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `[{"type": "incoming", "textMessage": "hi"}]`)
	}

	data, err := invoke(t, handler, "get_chat_history", map[string]any{"chat": "9876543210"})

	require.NoError(t, err)
	assert.Equal(t, "919876543210@c.us", body["chatId"])
	assert.Equal(t, float64(20), body["count"])
	assert.Len(t, data.([]any), 1)
}

func TestCreateGroup_NormalizesParticipants(t *testing.T) {
	var body map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"created": true, "chatId": "120363025955769708@g.us"}`)
	}

	_, err := invoke(t, handler, "create_group", map[string]any{
		"name":         "team",
		"participants": []any{"9876543210", "+919812345678"},
	})

	require.NoError(t, err)
	assert.Equal(t, "team", body["groupName"])
	assert.Equal(t, []any{"919876543210@c.us", "919812345678@c.us"}, body["chatIds"])
}

func TestGetGroupParticipants_ExtractsList(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "120363025955769708@g.us", body["groupId"])
		fmt.Fprint(w, `{"groupId": "120363025955769708@g.us", "participants": [{"id": "919876543210@c.us", "isAdmin": true}]}`)
	}

	data, err := invoke(t, handler, "get_group_participants", map[string]any{
		"group": "120363025955769708@g.us",
	})

	require.NoError(t, err)
	participants := data.([]any)
	require.Len(t, participants, 1)
	assert.Equal(t, true, participants[0].(map[string]any)["isAdmin"])
}

func TestNormalizeChatID(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"919876543210", "919876543210@c.us"},
		{"9876543210", "919876543210@c.us"},
		{"+919876543210", "919876543210@c.us"},
		{" 14155550123 ", "14155550123@c.us"},
		{"919876543210@c.us", "919876543210@c.us"},
		{"120363025955769708@g.us", "120363025955769708@g.us"},
		{"1203630259557697081234", "1203630259557697081234@g.us"},
		{"not-a-number", "not-a-number"},
	}
	for _, c := range cases {
		if got := NormalizeChatID(c.in); got != c.want {
			t.Errorf("NormalizeChatID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
