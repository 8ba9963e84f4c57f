package vendorclient

import "net/http"

// Auth attaches vendor-specific authentication to an outbound request.
// Scheme choice depends on the vendor: GitHub uses bearer tokens, Trello-style
// APIs use key/secret pairs, SerpAPI an API-key query parameter. GreenAPI
// embeds credentials in the URL path, so it builds them into the RequestSpec
// URL and uses no Auth.
type Auth interface {
	Apply(req *http.Request)
}

// BearerToken sets an Authorization: Bearer header.
type BearerToken string

func (t BearerToken) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+string(t))
}

// BasicAuth sets an Authorization: Basic header from a key/secret pair.
type BasicAuth struct {
	User, Secret string
}

func (a BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(a.User, a.Secret)
}

// QueryKey appends the secret as a query parameter (e.g. SerpAPI's api_key).
type QueryKey struct {
	Param, Value string
}

func (a QueryKey) Apply(req *http.Request) {
	q := req.URL.Query()
	q.Set(a.Param, a.Value)
	req.URL.RawQuery = q.Encode()
}
