// Package greenapi exposes WhatsApp messaging through the GreenAPI gateway.
//
// GreenAPI is unusual among the wrapped vendors: both credentials are
// embedded in the request path
// (/waInstance{idInstance}/{method}/{apiToken}), so requests carry no
// Authorization header and no auth query parameter. The URL builder is the
// auth scheme.
package greenapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mitchellh/mapstructure"

	"github.com/toolgate/toolgate/internal/vendorclient"
	"github.com/toolgate/toolgate/pkg/credentials"
	"github.com/toolgate/toolgate/pkg/schema"
	"github.com/toolgate/toolgate/pkg/tool"
)

// Credential keys for the GreenAPI instance.
const (
	CredentialInstance = "GREENAPI_ID_INSTANCE"
	CredentialToken    = "GREENAPI_API_TOKEN"
)

const defaultBaseURL = "https://api.green-api.com"

// Integration owns the GreenAPI tool handlers.
type Integration struct {
	client  *vendorclient.Client
	baseURL string
}

// Option configures the integration.
type Option func(*Integration)

// WithBaseURL overrides the API root (tests point this at a fake server).
func WithBaseURL(u string) Option {
	return func(i *Integration) { i.baseURL = u }
}

// New creates the GreenAPI integration over the given vendor client.
func New(client *vendorclient.Client, opts ...Option) *Integration {
	i := &Integration{client: client, baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Register adds every GreenAPI tool to the registry.
func (i *Integration) Register(reg *tool.Registry) {
	reg.MustRegister(
		i.sendMessage(),
		i.getChats(),
		i.getChatHistory(),
		i.createGroup(),
		i.getGroupParticipants(),
	)
}

var requiredCredentials = []string{CredentialInstance, CredentialToken}

// methodURL builds the path-authenticated endpoint for one API method.
func (i *Integration) methodURL(creds credentials.Bundle, method string) string {
	instance, _ := creds.Get(CredentialInstance)
	token, _ := creds.Get(CredentialToken)
	return fmt.Sprintf("%s/waInstance%s/%s/%s",
		i.baseURL, url.PathEscape(instance), method, url.PathEscape(token))
}

func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: out, WeaklyTypedInput: true, TagName: "args",
	})
	if err != nil {
		return tool.Errorf(tool.KindInternal, "building argument decoder: %v", err)
	}
	if err := dec.Decode(args); err != nil {
		return tool.Errorf(tool.KindInternal, "decoding arguments: %v", err)
	}
	return nil
}

func (i *Integration) sendMessage() tool.Descriptor {
	return tool.Descriptor{
		Name:        "send_message",
		Description: "Send a text message to a phone number or group chat.",
		Args: schema.Object{Fields: schema.Fields{
			"chat":    {Type: schema.String(), Description: "Phone number or chat id. Bare numbers are normalized to WhatsApp chat ids.", Required: true},
			"message": {Type: schema.String(), Description: "Message text.", Required: true},
		}},
		Credentials: requiredCredentials,
		Handler: func(ctx context.Context, inv tool.Invocation) (any, error) {
			var args struct {
				Chat    string `args:"chat"`
				Message string `args:"message"`
			}
			if err := decodeArgs(inv.Args, &args); err != nil {
				return nil, err
			}
			resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
				Method: http.MethodPost,
				URL:    i.methodURL(inv.Credentials, "sendMessage"),
				Body: map[string]any{
					"chatId":  NormalizeChatID(args.Chat),
					"message": args.Message,
				},
			})
			if err != nil {
				return nil, err
			}
			return resp.Data, nil
		},
	}
}

func (i *Integration) getChats() tool.Descriptor {
	return tool.Descriptor{
		Name:        "get_chats",
		Description: "List the account's chats.",
		Args:        schema.Object{Fields: schema.Fields{}},
		Credentials: requiredCredentials,
		Handler: func(ctx context.Context, inv tool.Invocation) (any, error) {
			resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
				Method: http.MethodGet,
				URL:    i.methodURL(inv.Credentials, "getChats"),
			})
			if err != nil {
				return nil, err
			}
			return resp.Data, nil
		},
	}
}

func (i *Integration) getChatHistory() tool.Descriptor {
	return tool.Descriptor{
		Name:        "get_chat_history",
		Description: "Fetch the most recent messages of a chat.",
		Args: schema.Object{Fields: schema.Fields{
			"chat":  {Type: schema.String(), Description: "Phone number or chat id.", Required: true},
			"count": {Type: schema.Int(), Description: "Number of messages to fetch.", Default: 20},
		}},
		Credentials: requiredCredentials,
		Handler: func(ctx context.Context, inv tool.Invocation) (any, error) {
			var args struct {
				Chat  string `args:"chat"`
				Count int    `args:"count"`
			}
			if err := decodeArgs(inv.Args, &args); err != nil {
				return nil, err
			}
			resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
				Method: http.MethodPost,
				URL:    i.methodURL(inv.Credentials, "getChatHistory"),
				Body: map[string]any{
					"chatId": NormalizeChatID(args.Chat),
					"count":  args.Count,
				},
			})
			if err != nil {
				return nil, err
			}
			return resp.Data, nil
		},
	}
}

func (i *Integration) createGroup() tool.Descriptor {
	return tool.Descriptor{
		Name:        "create_group",
		Description: "Create a group chat with the given participants.",
		Args: schema.Object{Fields: schema.Fields{
			"name":         {Type: schema.String(), Description: "Group name.", Required: true},
			"participants": {Type: schema.Slice(schema.String()), Description: "Participant phone numbers.", Required: true},
		}},
		Credentials: requiredCredentials,
		Handler: func(ctx context.Context, inv tool.Invocation) (any, error) {
			var args struct {
				Name         string   `args:"name"`
				Participants []string `args:"participants"`
			}
			if err := decodeArgs(inv.Args, &args); err != nil {
				return nil, err
			}
			chatIDs := make([]string, len(args.Participants))
			for n, p := range args.Participants {
				chatIDs[n] = NormalizeChatID(p)
			}
			resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
				Method: http.MethodPost,
				URL:    i.methodURL(inv.Credentials, "createGroup"),
				Body: map[string]any{
					"groupName": args.Name,
					"chatIds":   chatIDs,
				},
			})
			if err != nil {
				return nil, err
			}
			return resp.Data, nil
		},
	}
}

func (i *Integration) getGroupParticipants() tool.Descriptor {
	return tool.Descriptor{
		Name:        "get_group_participants",
		Description: "List the participants of a group chat.",
		Args: schema.Object{Fields: schema.Fields{
			"group": {Type: schema.String(), Description: "Group chat id.", Required: true},
		}},
		Credentials: requiredCredentials,
		Handler: func(ctx context.Context, inv tool.Invocation) (any, error) {
			var args struct {
				Group string `args:"group"`
			}
			if err := decodeArgs(inv.Args, &args); err != nil {
				return nil, err
			}
			resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
				Method: http.MethodPost,
				URL:    i.methodURL(inv.Credentials, "getGroupData"),
				Body: map[string]any{
					"groupId": NormalizeChatID(args.Group),
				},
			})
			if err != nil {
				return nil, err
			}
			data, ok := resp.Data.(map[string]any)
			if !ok {
				return resp.Data, nil
			}
			if participants, ok := data["participants"]; ok {
				return participants, nil
			}
			return data, nil
		},
	}
}
