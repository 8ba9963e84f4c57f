// Package serpapi exposes SerpAPI's Google News and Google Shopping engines
// as search tools. SerpAPI authenticates with an api_key query parameter, so
// requests carry no Authorization header.
package serpapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mitchellh/mapstructure"

	"github.com/toolgate/toolgate/internal/vendorclient"
	"github.com/toolgate/toolgate/pkg/schema"
	"github.com/toolgate/toolgate/pkg/tool"
)

// CredentialKey is the credential key carrying the SerpAPI key.
const CredentialKey = "SERP_API_KEY"

const defaultBaseURL = "https://serpapi.com"

// Integration owns the SerpAPI tool handlers.
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

// New creates the SerpAPI integration over the given vendor client.
func New(client *vendorclient.Client, opts ...Option) *Integration {
	i := &Integration{client: client, baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Register adds every SerpAPI tool to the registry.
func (i *Integration) Register(reg *tool.Registry) {
	reg.MustRegister(
		i.searchTool("search_news", "Search Google News headlines for a query.", "google_news", newsSchema()),
		i.searchTool("search_shopping", "Search Google Shopping product listings for a query.", "google_shopping", shoppingSchema()),
	)
}

type searchArgs struct {
	Query    string `args:"query"`
	Country  string `args:"country"`
	Language string `args:"language"`
	Num      int    `args:"num"`
}

// searchTool builds one engine-specific search descriptor. Both engines share
// the same request shape; only the engine parameter and the validated result
// section differ.
func (i *Integration) searchTool(name, description, engine string, responseSchema *openapi3.Schema) tool.Descriptor {
	return tool.Descriptor{
		Name:        name,
		Description: description,
		Args: schema.Object{Fields: schema.Fields{
			"query":    {Type: schema.String(), Description: "Search query.", Required: true},
			"country":  {Type: schema.String(), Description: "Two-letter country code (gl parameter).", Default: "us"},
			"language": {Type: schema.String(), Description: "Two-letter language code (hl parameter).", Default: "en"},
			"num":      {Type: schema.Int(), Description: "Maximum number of results.", Default: 10},
		}},
		Credentials: []string{CredentialKey},
		Handler: func(ctx context.Context, inv tool.Invocation) (any, error) {
			var args searchArgs
			dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				Result: &args, WeaklyTypedInput: true, TagName: "args",
			})
			if err != nil {
				return nil, tool.Errorf(tool.KindInternal, "building argument decoder: %v", err)
			}
			if err := dec.Decode(inv.Args); err != nil {
				return nil, tool.Errorf(tool.KindInternal, "decoding arguments: %v", err)
			}

			key, _ := inv.Credentials.Get(CredentialKey)
			resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
				Method: http.MethodGet,
				URL:    i.baseURL + "/search",
				Query: url.Values{
					"engine": {engine},
					"q":      {args.Query},
					"gl":     {args.Country},
					"hl":     {args.Language},
					"num":    {strconv.Itoa(args.Num)},
				},
				Auth:           vendorclient.QueryKey{Param: "api_key", Value: key},
				ResponseSchema: responseSchema,
			})
			if err != nil {
				return nil, err
			}
			return resp.Data, nil
		},
	}
}

func newsSchema() *openapi3.Schema {
	item := openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("link", openapi3.NewStringSchema())
	item.Required = []string{"title"}

	s := openapi3.NewObjectSchema().WithProperty("news_results", arrayOf(item))
	s.Required = []string{"news_results"}
	return s
}

func shoppingSchema() *openapi3.Schema {
	item := openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("price", openapi3.NewStringSchema())
	item.Required = []string{"title"}

	s := openapi3.NewObjectSchema().WithProperty("shopping_results", arrayOf(item))
	s.Required = []string{"shopping_results"}
	return s
}

func arrayOf(item *openapi3.Schema) *openapi3.Schema {
	arr := openapi3.NewArraySchema()
	arr.Items = openapi3.NewSchemaRef("", item)
	return arr
}
