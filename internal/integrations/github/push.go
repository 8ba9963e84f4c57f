package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/toolgate/toolgate/internal/vendorclient"
	"github.com/toolgate/toolgate/internal/workflow"
	"github.com/toolgate/toolgate/pkg/schema"
	"github.com/toolgate/toolgate/pkg/tool"
)

const (
	stepGetRef       = "get ref"
	stepCreateTree   = "create tree"
	stepCreateCommit = "create commit"
	stepUpdateRef    = "update ref"
)

type pushArgs struct {
	Owner   string     `args:"owner"`
	Repo    string     `args:"repo"`
	Branch  string     `args:"branch"`
	Message string     `args:"message"`
	Files   []pushFile `args:"files"`
}

type pushFile struct {
	Path    string `args:"path"`
	Content string `args:"content"`
}

// pushFiles commits N files to a branch as one commit, chaining four Git Data
// API calls in strict order: get ref, create tree, create commit, update ref.
//
// The final ref update is a force update: it does not verify that the branch
// still points at the commit read in step 1. A concurrent writer racing this
// operation between steps 1 and 4 silently loses its commits. The wrapped API
// offers no compare-and-swap on refs together with tree creation, so this
// lost-update window is documented, accepted behavior. Objects created by
// completed steps are not rolled back on failure; orphaned trees and commits
// are content-addressed and harmless.
func (i *Integration) pushFiles() tool.Descriptor {
	fileType := schema.ObjectOf(schema.Fields{
		"path":    {Type: schema.String(), Description: "Path of the file inside the repository.", Required: true},
		"content": {Type: schema.String(), Description: "New file content (plain text).", Required: true},
	})
	return tool.Descriptor{
		Name:        "push_files",
		Description: "Commit multiple files to a branch as a single commit.",
		Args: schema.Object{Fields: schema.Fields{
			"owner":   {Type: schema.String(), Description: "Repository owner.", Required: true},
			"repo":    {Type: schema.String(), Description: "Repository name.", Required: true},
			"branch":  {Type: schema.String(), Description: "Branch to commit to. Must already exist.", Required: true},
			"message": {Type: schema.String(), Description: "Commit message.", Required: true},
			"files":   {Type: schema.Slice(fileType), Description: "Files to write, each with path and content.", Required: true},
		}},
		Credentials: []string{CredentialToken},
		Handler: func(ctx context.Context, inv tool.Invocation) (any, error) {
			var args pushArgs
			if err := decodeArgs(inv.Args, &args); err != nil {
				return nil, err
			}
			if len(args.Files) == 0 {
				return nil, tool.Errorf(tool.KindValidation, "files must contain at least one entry")
			}
			auth := bearer(inv.Credentials)

			state, err := workflow.Run(ctx, i.logger, []workflow.Step{
				{Name: stepGetRef, Run: func(ctx context.Context, s *workflow.State) (any, error) {
					resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
						Method:         http.MethodGet,
						URL:            i.url("/repos/%s/%s/git/refs/heads/%s", args.Owner, args.Repo, args.Branch),
						Auth:           auth,
						ResponseSchema: refSchema(),
					})
					if err != nil {
						return nil, err
					}
					return refObjectSHA(resp.Data), nil
				}},
				{Name: stepCreateTree, Run: func(ctx context.Context, s *workflow.State) (any, error) {
					entries := make([]map[string]any, len(args.Files))
					for n, f := range args.Files {
						entries[n] = map[string]any{
							"path":    f.Path,
							"mode":    "100644",
							"type":    "blob",
							"content": f.Content,
						}
					}
					resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
						Method: http.MethodPost,
						URL:    i.url("/repos/%s/%s/git/trees", args.Owner, args.Repo),
						Body: map[string]any{
							"base_tree": s.Last(),
							"tree":      entries,
						},
						Auth:           auth,
						ResponseSchema: treeSchema(),
					})
					if err != nil {
						return nil, err
					}
					return resp.Data.(map[string]any)["sha"], nil
				}},
				{Name: stepCreateCommit, Run: func(ctx context.Context, s *workflow.State) (any, error) {
					baseSha, _ := s.Result(stepGetRef)
					treeSha, _ := s.Result(stepCreateTree)
					resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
						Method: http.MethodPost,
						URL:    i.url("/repos/%s/%s/git/commits", args.Owner, args.Repo),
						Body: map[string]any{
							"message": args.Message,
							"tree":    treeSha,
							"parents": []any{baseSha},
						},
						Auth:           auth,
						ResponseSchema: commitSchema(),
					})
					if err != nil {
						return nil, err
					}
					return resp.Data.(map[string]any)["sha"], nil
				}},
				{Name: stepUpdateRef, Run: func(ctx context.Context, s *workflow.State) (any, error) {
					resp, err := i.client.Do(ctx, vendorclient.RequestSpec{
						Method: http.MethodPatch,
						URL:    i.url("/repos/%s/%s/git/refs/heads/%s", args.Owner, args.Repo, args.Branch),
						Body: map[string]any{
							"sha":   s.Last(),
							"force": true,
						},
						Auth:           auth,
						ResponseSchema: refSchema(),
					})
					if err != nil {
						return nil, err
					}
					return resp.Data, nil
				}},
			})
			if err != nil {
				return nil, stepFailure(err)
			}
			return state.Last(), nil
		},
	}
}

// stepFailure surfaces which workflow step failed while keeping the inner
// error's classification, vendor payload and suggestions intact.
func stepFailure(err error) error {
	var stepErr *workflow.StepError
	if !errors.As(err, &stepErr) {
		return err
	}
	te := tool.AsError(stepErr.Err)
	te.Message = fmt.Sprintf("%s (failed at step %q)", te.Message, stepErr.Step)
	return te
}
