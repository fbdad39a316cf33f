package shape

// The full shape catalogue. Order matters only for deterministic
// registration and docs output.

var (
	// Organization-scoped

	Projects = Definition{
		Name:        "projects",
		Table:       "projects",
		WhereClause: `"organization_id" = $1`,
		Params:      []string{"organization_id"},
		URL:         "/shape/projects",
		Collection:  "projects",
	}

	Notifications = Definition{
		Name:        "notifications",
		Table:       "notifications",
		WhereClause: `"organization_id" = $1 AND "user_id" = $2`,
		Params:      []string{"organization_id", "user_id"},
		URL:         "/shape/notifications",
		Collection:  "notifications",
	}

	OrganizationMembers = Definition{
		Name:        "organization_members",
		Table:       "organization_member_metadata",
		WhereClause: `"organization_id" = $1`,
		Params:      []string{"organization_id"},
		URL:         "/shape/organization_members",
		Collection:  "organization_member_metadata",
	}

	Users = Definition{
		Name:        "users",
		Table:       "users",
		WhereClause: `"id" IN (SELECT user_id FROM organization_member_metadata WHERE "organization_id" = $1)`,
		Params:      []string{"organization_id"},
		URL:         "/shape/users",
		Collection:  "users",
	}

	// Project-scoped

	ProjectTags = Definition{
		Name:        "project_tags",
		Table:       "tags",
		WhereClause: `"project_id" = $1`,
		Params:      []string{"project_id"},
		URL:         "/shape/project/{project_id}/tags",
		Collection:  "tags",
	}

	ProjectStatuses = Definition{
		Name:        "project_statuses",
		Table:       "project_statuses",
		WhereClause: `"project_id" = $1`,
		Params:      []string{"project_id"},
		URL:         "/shape/project/{project_id}/project_statuses",
		Collection:  "project_statuses",
	}

	ProjectIssues = Definition{
		Name:        "project_issues",
		Table:       "issues",
		WhereClause: `"project_id" = $1`,
		Params:      []string{"project_id"},
		URL:         "/shape/project/{project_id}/issues",
		Collection:  "issues",
	}

	UserWorkspaces = Definition{
		Name:        "user_workspaces",
		Table:       "workspaces",
		WhereClause: `"owner_user_id" = $1`,
		Params:      []string{"owner_user_id"},
		URL:         "/shape/user/workspaces",
		Collection:  "workspaces",
	}

	ProjectWorkspaces = Definition{
		Name:        "project_workspaces",
		Table:       "workspaces",
		WhereClause: `"project_id" = $1`,
		Params:      []string{"project_id"},
		URL:         "/shape/project/{project_id}/workspaces",
		Collection:  "workspaces",
	}

	// Issue-related, streamed at project level

	ProjectIssueAssignees = Definition{
		Name:        "project_issue_assignees",
		Table:       "issue_assignees",
		WhereClause: `"issue_id" IN (SELECT id FROM issues WHERE "project_id" = $1)`,
		Params:      []string{"project_id"},
		URL:         "/shape/project/{project_id}/issue_assignees",
		Collection:  "issue_assignees",
	}

	ProjectIssueFollowers = Definition{
		Name:        "project_issue_followers",
		Table:       "issue_followers",
		WhereClause: `"issue_id" IN (SELECT id FROM issues WHERE "project_id" = $1)`,
		Params:      []string{"project_id"},
		URL:         "/shape/project/{project_id}/issue_followers",
		Collection:  "issue_followers",
	}

	ProjectIssueTags = Definition{
		Name:        "project_issue_tags",
		Table:       "issue_tags",
		WhereClause: `"issue_id" IN (SELECT id FROM issues WHERE "project_id" = $1)`,
		Params:      []string{"project_id"},
		URL:         "/shape/project/{project_id}/issue_tags",
		Collection:  "issue_tags",
	}

	ProjectIssueRelationships = Definition{
		Name:        "project_issue_relationships",
		Table:       "issue_relationships",
		WhereClause: `"issue_id" IN (SELECT id FROM issues WHERE "project_id" = $1)`,
		Params:      []string{"project_id"},
		URL:         "/shape/project/{project_id}/issue_relationships",
		Collection:  "issue_relationships",
	}

	ProjectPullRequests = Definition{
		Name:        "project_pull_requests",
		Table:       "pull_requests",
		WhereClause: `"issue_id" IN (SELECT id FROM issues WHERE "project_id" = $1)`,
		Params:      []string{"project_id"},
		URL:         "/shape/project/{project_id}/pull_requests",
		Collection:  "pull_requests",
	}

	// Issue-scoped

	IssueComments = Definition{
		Name:        "issue_comments",
		Table:       "issue_comments",
		WhereClause: `"issue_id" = $1`,
		Params:      []string{"issue_id"},
		URL:         "/shape/issue/{issue_id}/comments",
		Collection:  "issue_comments",
	}

	IssueCommentReactions = Definition{
		Name:        "issue_comment_reactions",
		Table:       "issue_comment_reactions",
		WhereClause: `"comment_id" IN (SELECT id FROM issue_comments WHERE "issue_id" = $1)`,
		Params:      []string{"issue_id"},
		URL:         "/shape/issue/{issue_id}/reactions",
		Collection:  "issue_comment_reactions",
	}
)

// All returns the fixed, ordered shape catalogue.
func All() []Definition {
	return []Definition{
		Projects,
		Notifications,
		OrganizationMembers,
		Users,
		ProjectTags,
		ProjectStatuses,
		ProjectIssues,
		UserWorkspaces,
		ProjectWorkspaces,
		ProjectIssueAssignees,
		ProjectIssueFollowers,
		ProjectIssueTags,
		ProjectIssueRelationships,
		ProjectPullRequests,
		IssueComments,
		IssueCommentReactions,
	}
}
