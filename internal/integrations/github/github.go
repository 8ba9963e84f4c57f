// Package github exposes a curated slice of the GitHub REST API as tools:
// repository search, file reads and writes, branch creation, and a composite
// multi-file commit built on the Git Data API.
package github

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/toolgate/toolgate/internal/vendorclient"
	"github.com/toolgate/toolgate/pkg/credentials"
	"github.com/toolgate/toolgate/pkg/schema"
	"github.com/toolgate/toolgate/pkg/tool"
)

// CredentialToken is the credential key carrying the personal access token.
const CredentialToken = "GITHUB_PERSONAL_ACCESS_TOKEN"

const defaultBaseURL = "https://api.github.com"

// Integration owns the GitHub tool handlers. One instance serves all calls;
// per-call state lives in the invocation.
type Integration struct {
	client  *vendorclient.Client
	logger  *slog.Logger
	baseURL string
}

// Option configures the integration.
type Option func(*Integration)

// WithBaseURL overrides the API root (tests point this at a fake server).
func WithBaseURL(u string) Option {
	return func(i *Integration) { i.baseURL = u }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Integration) { i.logger = logger }
}

// New creates the GitHub integration over the given vendor client.
func New(client *vendorclient.Client, opts ...Option) *Integration {
	i := &Integration{
		client:  client,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Register adds every GitHub tool to the registry, in listing order.
func (i *Integration) Register(reg *tool.Registry) {
	reg.MustRegister(
		i.searchRepositories(),
		i.getFileContents(),
		i.createOrUpdateFile(),
		i.createBranch(),
		i.pushFiles(),
	)
}

func (i *Integration) url(format string, args ...any) string {
	escaped := make([]any, len(args))
	for n, a := range args {
		escaped[n] = url.PathEscape(fmt.Sprint(a))
	}
	return i.baseURL + fmt.Sprintf(format, escaped...)
}

// decodeArgs maps validated arguments onto a typed struct. Validation has
// already type-checked every field, so a decode failure is a programming
// error in the schema/struct pairing.
func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "args",
	})
	if err != nil {
		return tool.Errorf(tool.KindInternal, "building argument decoder: %v", err)
	}
	if err := dec.Decode(args); err != nil {
		return tool.Errorf(tool.KindInternal, "decoding arguments: %v", err)
	}
	return nil
}

func bearer(creds credentials.Bundle) vendorclient.Auth {
	token, _ := creds.Get(CredentialToken)
	return vendorclient.BearerToken(token)
}

func (i *Integration) searchRepositories() tool.Descriptor {
	return tool.Descriptor{
		Name:        "search_repositories",
		Description: "Search GitHub repositories by query string.",
		Args: schema.Object{Fields: schema.Fields{
			"query":    {Type: schema.String(), Description: "Search query (GitHub search syntax).", Required: true},
			"page":     {Type: schema.Int(), Description: "Page number, starting at 1.", Default: 1},
			"per_page": {Type: schema.Int(), Description: "Results per page (max 100).", Default: 30},
		}},
		Credentials: []string{CredentialToken},
		Handler: func(ctx context.Context, inv tool.Invocation) (any, error) {
			var args struct {
				Query   string `args:"query"`
				Page    int    `args:"page"`
				PerPage int    `args:"per_page"`
			}
			if err := decodeArgs(inv.Args, &args); err != nil {
				return nil, err
			}

			resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
				Method: http.MethodGet,
				URL:    i.baseURL + "/search/repositories",
				Query: url.Values{
					"q":        {args.Query},
					"page":     {strconv.Itoa(args.Page)},
					"per_page": {strconv.Itoa(args.PerPage)},
				},
				Auth:           bearer(inv.Credentials),
				ResponseSchema: searchRepositoriesSchema(),
			})
			if err != nil {
				return nil, err
			}
			return resp.Data, nil
		},
	}
}

func (i *Integration) getFileContents() tool.Descriptor {
	return tool.Descriptor{
		Name:        "get_file_contents",
		Description: "Read a file or list a directory in a repository. File bodies are returned as decoded text.",
		Args: schema.Object{Fields: schema.Fields{
			"owner": {Type: schema.String(), Description: "Repository owner.", Required: true},
			"repo":  {Type: schema.String(), Description: "Repository name.", Required: true},
			"path":  {Type: schema.String(), Description: "Path to the file or directory.", Required: true},
			"ref":   {Type: schema.String(), Description: "Branch, tag or commit SHA. Defaults to the repository's default branch."},
		}},
		Credentials: []string{CredentialToken},
		Handler: func(ctx context.Context, inv tool.Invocation) (any, error) {
			var args struct {
				Owner string `args:"owner"`
				Repo  string `args:"repo"`
				Path  string `args:"path"`
				Ref   string `args:"ref"`
			}
			if err := decodeArgs(inv.Args, &args); err != nil {
				return nil, err
			}

			query := url.Values{}
			if args.Ref != "" {
				query.Set("ref", args.Ref)
			}
			resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
				Method: http.MethodGet,
				URL:    i.url("/repos/%s/%s/contents", args.Owner, args.Repo) + "/" + escapePath(args.Path),
				Query:  query,
				Auth:   bearer(inv.Credentials),
			})
			if err != nil {
				return nil, err
			}

			// Directories come back as arrays; pass the listing through.
			file, ok := resp.Data.(map[string]any)
			if !ok {
				return resp.Data, nil
			}
			encoded, _ := file["content"].(string)
			if file["type"] != "file" || encoded == "" {
				return resp.Data, nil
			}

			decoded, err := vendorclient.DecodeFileContent(encoded)
			if err != nil {
				return nil, tool.Errorf(tool.KindResponseValidation, "decoding file content of %s: %v", args.Path, err)
			}
			file["content"] = decoded
			file["encoding"] = "utf-8"
			return file, nil
		},
	}
}

func (i *Integration) createOrUpdateFile() tool.Descriptor {
	return tool.Descriptor{
		Name:        "create_or_update_file",
		Description: "Create or update a single file on a branch. Content is plain text; it is base64-encoded on the wire.",
		Args: schema.Object{Fields: schema.Fields{
			"owner":   {Type: schema.String(), Description: "Repository owner.", Required: true},
			"repo":    {Type: schema.String(), Description: "Repository name.", Required: true},
			"path":    {Type: schema.String(), Description: "Path of the file to write.", Required: true},
			"content": {Type: schema.String(), Description: "New file content (plain text).", Required: true},
			"message": {Type: schema.String(), Description: "Commit message.", Required: true},
			"branch":  {Type: schema.String(), Description: "Branch to commit to.", Required: true},
			"sha":     {Type: schema.String(), Description: "Blob SHA of the file being replaced. Required when updating an existing file."},
		}},
		Credentials: []string{CredentialToken},
		Handler: func(ctx context.Context, inv tool.Invocation) (any, error) {
			var args struct {
				Owner   string `args:"owner"`
				Repo    string `args:"repo"`
				Path    string `args:"path"`
				Content string `args:"content"`
				Message string `args:"message"`
				Branch  string `args:"branch"`
				SHA     string `args:"sha"`
			}
			if err := decodeArgs(inv.Args, &args); err != nil {
				return nil, err
			}

			body := map[string]any{
				"message": args.Message,
				"content": vendorclient.EncodeFileContent(args.Content),
				"branch":  args.Branch,
			}
			if args.SHA != "" {
				body["sha"] = args.SHA
			}
			resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
				Method:         http.MethodPut,
				URL:            i.url("/repos/%s/%s/contents", args.Owner, args.Repo) + "/" + escapePath(args.Path),
				Body:           body,
				Auth:           bearer(inv.Credentials),
				ResponseSchema: contentWriteSchema(),
			})
			if err != nil {
				return nil, err
			}
			return resp.Data, nil
		},
	}
}

func (i *Integration) createBranch() tool.Descriptor {
	return tool.Descriptor{
		Name:        "create_branch",
		Description: "Create a branch from another branch (default branch when unspecified).",
		Args: schema.Object{Fields: schema.Fields{
			"owner":       {Type: schema.String(), Description: "Repository owner.", Required: true},
			"repo":        {Type: schema.String(), Description: "Repository name.", Required: true},
			"branch":      {Type: schema.String(), Description: "Name of the branch to create.", Required: true},
			"from_branch": {Type: schema.String(), Description: "Source branch. Defaults to the repository's default branch."},
		}},
		Credentials: []string{CredentialToken},
		Handler: func(ctx context.Context, inv tool.Invocation) (any, error) {
			var args struct {
				Owner      string `args:"owner"`
				Repo       string `args:"repo"`
				Branch     string `args:"branch"`
				FromBranch string `args:"from_branch"`
			}
			if err := decodeArgs(inv.Args, &args); err != nil {
				return nil, err
			}
			auth := bearer(inv.Credentials)

			source := args.FromBranch
			if source == "" {
				repoResp, err := i.client.Do(ctx, vendorclient.RequestSpec{
					Method: http.MethodGet,
					URL:    i.url("/repos/%s/%s", args.Owner, args.Repo),
					Auth:   auth,
				})
				if err != nil {
					return nil, err
				}
				info, _ := repoResp.Data.(map[string]any)
				source, _ = info["default_branch"].(string)
				if source == "" {
					return nil, tool.Errorf(tool.KindResponseValidation, "repository %s/%s reports no default branch", args.Owner, args.Repo)
				}
			}

			refResp, err := i.client.Do(ctx, vendorclient.RequestSpec{
				Method:         http.MethodGet,
				URL:            i.url("/repos/%s/%s/git/refs/heads/%s", args.Owner, args.Repo, source),
				Auth:           auth,
				ResponseSchema: refSchema(),
			})
			if err != nil {
				return nil, err
			}

			resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
				Method: http.MethodPost,
				URL:    i.url("/repos/%s/%s/git/refs", args.Owner, args.Repo),
				Body: map[string]any{
					"ref": "refs/heads/" + args.Branch,
					"sha": refObjectSHA(refResp.Data),
				},
				Auth:           auth,
				ResponseSchema: refSchema(),
			})
			if err != nil {
				return nil, err
			}
			return resp.Data, nil
		},
	}
}

// refObjectSHA digs the commit SHA out of a Git reference object.
func refObjectSHA(data any) string {
	ref, _ := data.(map[string]any)
	object, _ := ref["object"].(map[string]any)
	sha, _ := object["sha"].(string)
	return sha
}

// escapePath escapes a repository path segment by segment, keeping the
// slashes that separate directories.
func escapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}
