package mcpgateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/crestline/shapegate/internal/model"
)

// Tool inputs mirror the fallback endpoints' scope parameters.

type OrgInput struct {
	OrganizationID string `json:"organization_id"`
}

type ProjectInput struct {
	ProjectID string `json:"project_id"`
}

type IssueInput struct {
	IssueID string `json:"issue_id"`
}

type NoInput struct{}

// Tool outputs are the fallback envelopes verbatim.

type ProjectsOutput struct {
	Projects []model.Project `json:"projects"`
}

type IssuesOutput struct {
	Issues []model.Issue `json:"issues"`
}

type TagsOutput struct {
	Tags []model.Tag `json:"tags"`
}

type WorkspacesOutput struct {
	Workspaces []model.Workspace `json:"workspaces"`
}

type OrganizationMembersOutput struct {
	OrganizationMemberMetadata []model.OrganizationMember `json:"organization_member_metadata"`
}

type IssueCommentsOutput struct {
	IssueComments []model.IssueComment `json:"issue_comments"`
}

func (in OrgInput) query() url.Values {
	return url.Values{"organization_id": []string{in.OrganizationID}}
}

func (in ProjectInput) query() url.Values {
	return url.Values{"project_id": []string{in.ProjectID}}
}

func (in IssueInput) query() url.Values {
	return url.Values{"issue_id": []string{in.IssueID}}
}

func (NoInput) query() url.Values { return nil }

type queryInput interface {
	query() url.Values
}

// registerListTool wires one read-only tool to one fallback endpoint.
func registerListTool[In queryInput, Out any](log *slog.Logger, server *mcp.Server, client *gatewayClient, name, description, path string) error {
	in, err := jsonschema.For[In](nil)
	if err != nil {
		return fmt.Errorf("failed to create %s input schema: %w", name, err)
	}
	out, err := jsonschema.For[Out](nil)
	if err != nil {
		return fmt.Errorf("failed to create %s output schema: %w", name, err)
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:         name,
		Description:  description,
		InputSchema:  in,
		OutputSchema: out,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, req In) (*mcp.CallToolResult, Out, error) {
		log.Debug("mcp/tool: calling gateway", "tool", name, "path", path)
		var result Out
		if err := client.get(ctx, path, req.query(), &result); err != nil {
			return nil, result, err
		}
		return nil, result, nil
	})
	return nil
}

func registerTools(log *slog.Logger, server *mcp.Server, client *gatewayClient) error {
	if err := registerListTool[OrgInput, ProjectsOutput](log, server, client,
		"list_projects",
		"List the projects in an organization you are a member of.",
		"/fallback/projects",
	); err != nil {
		return err
	}

	if err := registerListTool[OrgInput, OrganizationMembersOutput](log, server, client,
		"list_organization_members",
		"List the members of an organization you belong to.",
		"/fallback/organization_members",
	); err != nil {
		return err
	}

	if err := registerListTool[ProjectInput, IssuesOutput](log, server, client,
		"list_issues",
		"List the issues in a project you have access to.",
		"/fallback/issues",
	); err != nil {
		return err
	}

	if err := registerListTool[ProjectInput, TagsOutput](log, server, client,
		"list_tags",
		"List the tags defined in a project you have access to.",
		"/fallback/tags",
	); err != nil {
		return err
	}

	if err := registerListTool[IssueInput, IssueCommentsOutput](log, server, client,
		"list_issue_comments",
		"List the comments on an issue you have access to.",
		"/fallback/issue_comments",
	); err != nil {
		return err
	}

	if err := registerListTool[NoInput, WorkspacesOutput](log, server, client,
		"list_workspaces",
		"List your own workspaces. Takes no parameters; results are always scoped to your identity.",
		"/fallback/user_workspaces",
	); err != nil {
		return err
	}

	return nil
}
