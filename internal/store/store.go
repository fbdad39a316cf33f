// Package store is the gateway's data-store boundary: per-resource list
// queries that encode the same predicates as the shape catalogue, and the
// access checks the scope policy runs before any query.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/crestline/shapegate/internal/model"
)

// AccessChecker answers the scope policy's authorization questions.
type AccessChecker interface {
	// IsOrganizationMember reports whether the user is a member of the
	// organization.
	IsOrganizationMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error)

	// HasProjectAccess reports whether the user is a member of the project's
	// owning organization.
	HasProjectAccess(ctx context.Context, userID, projectID uuid.UUID) (bool, error)

	// HasIssueAccess reports whether the user has access to the project
	// owning the issue.
	HasIssueAccess(ctx context.Context, userID, issueID uuid.UUID) (bool, error)
}

// Repository lists rows with the exact predicate each shape encodes. One
// method per shape so the fallback path and the stream stay equivalent.
type Repository interface {
	ListProjectsByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Project, error)
	ListNotificationsByOrganizationAndUser(ctx context.Context, orgID, userID uuid.UUID) ([]model.Notification, error)
	ListOrganizationMembers(ctx context.Context, orgID uuid.UUID) ([]model.OrganizationMember, error)
	ListUsersByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.User, error)

	ListTagsByProject(ctx context.Context, projectID uuid.UUID) ([]model.Tag, error)
	ListProjectStatusesByProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectStatus, error)
	ListIssuesByProject(ctx context.Context, projectID uuid.UUID) ([]model.Issue, error)
	ListWorkspacesByOwner(ctx context.Context, userID uuid.UUID) ([]model.Workspace, error)
	ListWorkspacesByProject(ctx context.Context, projectID uuid.UUID) ([]model.Workspace, error)
	ListIssueAssigneesByProject(ctx context.Context, projectID uuid.UUID) ([]model.IssueAssignee, error)
	ListIssueFollowersByProject(ctx context.Context, projectID uuid.UUID) ([]model.IssueFollower, error)
	ListIssueTagsByProject(ctx context.Context, projectID uuid.UUID) ([]model.IssueTag, error)
	ListIssueRelationshipsByProject(ctx context.Context, projectID uuid.UUID) ([]model.IssueRelationship, error)
	ListPullRequestsByProject(ctx context.Context, projectID uuid.UUID) ([]model.PullRequest, error)

	ListIssueCommentsByIssue(ctx context.Context, issueID uuid.UUID) ([]model.IssueComment, error)
	ListIssueCommentReactionsByIssue(ctx context.Context, issueID uuid.UUID) ([]model.IssueCommentReaction, error)
}

// Store is the full data-store capability the gateway depends on.
type Store interface {
	AccessChecker
	Repository
}
