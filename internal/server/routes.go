package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/crestline/shapegate/internal/shape"
)

// shapeRoutes is the single source of truth for shape registration. Every
// catalogue entry appears here exactly once; checkCatalogue enforces the
// pairing at startup.
func (s *Server) shapeRoutes() ([]ShapeRoute, error) {
	entries := []struct {
		def         shape.Definition
		scope       shape.Scope
		fallbackURL string
		fallback    any
	}{
		// Organization-scoped
		{shape.Projects, shape.ScopeOrg, "/fallback/projects", OrgFallback(s.fallbackListProjects)},
		{shape.Notifications, shape.ScopeOrgWithUser, "/fallback/notifications", OrgFallback(s.fallbackListNotifications)},
		{shape.OrganizationMembers, shape.ScopeOrg, "/fallback/organization_members", OrgFallback(s.fallbackListOrganizationMembers)},
		{shape.Users, shape.ScopeOrg, "/fallback/users", OrgFallback(s.fallbackListUsers)},
		// Project-scoped
		{shape.ProjectTags, shape.ScopeProject, "/fallback/tags", ProjectFallback(s.fallbackListTags)},
		{shape.ProjectStatuses, shape.ScopeProject, "/fallback/project_statuses", ProjectFallback(s.fallbackListProjectStatuses)},
		{shape.ProjectIssues, shape.ScopeProject, "/fallback/issues", ProjectFallback(s.fallbackListIssues)},
		{shape.UserWorkspaces, shape.ScopeUser, "/fallback/user_workspaces", UserFallback(s.fallbackListUserWorkspaces)},
		{shape.ProjectWorkspaces, shape.ScopeProject, "/fallback/project_workspaces", ProjectFallback(s.fallbackListProjectWorkspaces)},
		// Project-scoped issue-related
		{shape.ProjectIssueAssignees, shape.ScopeProject, "/fallback/issue_assignees", ProjectFallback(s.fallbackListIssueAssignees)},
		{shape.ProjectIssueFollowers, shape.ScopeProject, "/fallback/issue_followers", ProjectFallback(s.fallbackListIssueFollowers)},
		{shape.ProjectIssueTags, shape.ScopeProject, "/fallback/issue_tags", ProjectFallback(s.fallbackListIssueTags)},
		{shape.ProjectIssueRelationships, shape.ScopeProject, "/fallback/issue_relationships", ProjectFallback(s.fallbackListIssueRelationships)},
		{shape.ProjectPullRequests, shape.ScopeProject, "/fallback/pull_requests", ProjectFallback(s.fallbackListPullRequests)},
		// Issue-scoped
		{shape.IssueComments, shape.ScopeIssue, "/fallback/issue_comments", IssueFallback(s.fallbackListIssueComments)},
		{shape.IssueCommentReactions, shape.ScopeIssue, "/fallback/issue_comment_reactions", IssueFallback(s.fallbackListIssueCommentReactions)},
	}

	routes := make([]ShapeRoute, 0, len(entries))
	for _, e := range entries {
		route, err := newShapeRoute(e.def, e.scope, e.fallbackURL, e.fallback)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, nil
}

// --- org-scoped fallbacks ---

func (s *Server) fallbackListProjects(ctx context.Context, orgID, _ uuid.UUID) (any, error) {
	projects, err := s.store.ListProjectsByOrganization(ctx, orgID)
	if err != nil {
		s.log.Error("failed to list projects (fallback)", "organization_id", orgID, "error", err)
		return nil, errFailedList("projects")
	}
	return envelope("projects", projects), nil
}

func (s *Server) fallbackListNotifications(ctx context.Context, orgID, userID uuid.UUID) (any, error) {
	notifications, err := s.store.ListNotificationsByOrganizationAndUser(ctx, orgID, userID)
	if err != nil {
		s.log.Error("failed to list notifications (fallback)", "organization_id", orgID, "error", err)
		return nil, errFailedList("notifications")
	}
	return envelope("notifications", notifications), nil
}

func (s *Server) fallbackListOrganizationMembers(ctx context.Context, orgID, _ uuid.UUID) (any, error) {
	members, err := s.store.ListOrganizationMembers(ctx, orgID)
	if err != nil {
		s.log.Error("failed to list organization members (fallback)", "organization_id", orgID, "error", err)
		return nil, errFailedList("organization members")
	}
	return envelope("organization_member_metadata", members), nil
}

func (s *Server) fallbackListUsers(ctx context.Context, orgID, _ uuid.UUID) (any, error) {
	users, err := s.store.ListUsersByOrganization(ctx, orgID)
	if err != nil {
		s.log.Error("failed to list users (fallback)", "organization_id", orgID, "error", err)
		return nil, errFailedList("users")
	}
	return envelope("users", users), nil
}

// --- project-scoped fallbacks ---

func (s *Server) fallbackListTags(ctx context.Context, projectID uuid.UUID) (any, error) {
	tags, err := s.store.ListTagsByProject(ctx, projectID)
	if err != nil {
		s.log.Error("failed to list tags (fallback)", "project_id", projectID, "error", err)
		return nil, errFailedList("tags")
	}
	return envelope("tags", tags), nil
}

func (s *Server) fallbackListProjectStatuses(ctx context.Context, projectID uuid.UUID) (any, error) {
	statuses, err := s.store.ListProjectStatusesByProject(ctx, projectID)
	if err != nil {
		s.log.Error("failed to list project statuses (fallback)", "project_id", projectID, "error", err)
		return nil, errFailedList("project statuses")
	}
	return envelope("project_statuses", statuses), nil
}

func (s *Server) fallbackListIssues(ctx context.Context, projectID uuid.UUID) (any, error) {
	issues, err := s.store.ListIssuesByProject(ctx, projectID)
	if err != nil {
		s.log.Error("failed to list issues (fallback)", "project_id", projectID, "error", err)
		return nil, errFailedList("issues")
	}
	return envelope("issues", issues), nil
}

func (s *Server) fallbackListProjectWorkspaces(ctx context.Context, projectID uuid.UUID) (any, error) {
	workspaces, err := s.store.ListWorkspacesByProject(ctx, projectID)
	if err != nil {
		s.log.Error("failed to list workspaces (fallback)", "project_id", projectID, "error", err)
		return nil, errFailedList("workspaces")
	}
	return envelope("workspaces", workspaces), nil
}

func (s *Server) fallbackListIssueAssignees(ctx context.Context, projectID uuid.UUID) (any, error) {
	assignees, err := s.store.ListIssueAssigneesByProject(ctx, projectID)
	if err != nil {
		s.log.Error("failed to list issue assignees (fallback)", "project_id", projectID, "error", err)
		return nil, errFailedList("issue assignees")
	}
	return envelope("issue_assignees", assignees), nil
}

func (s *Server) fallbackListIssueFollowers(ctx context.Context, projectID uuid.UUID) (any, error) {
	followers, err := s.store.ListIssueFollowersByProject(ctx, projectID)
	if err != nil {
		s.log.Error("failed to list issue followers (fallback)", "project_id", projectID, "error", err)
		return nil, errFailedList("issue followers")
	}
	return envelope("issue_followers", followers), nil
}

func (s *Server) fallbackListIssueTags(ctx context.Context, projectID uuid.UUID) (any, error) {
	issueTags, err := s.store.ListIssueTagsByProject(ctx, projectID)
	if err != nil {
		s.log.Error("failed to list issue tags (fallback)", "project_id", projectID, "error", err)
		return nil, errFailedList("issue tags")
	}
	return envelope("issue_tags", issueTags), nil
}

func (s *Server) fallbackListIssueRelationships(ctx context.Context, projectID uuid.UUID) (any, error) {
	relationships, err := s.store.ListIssueRelationshipsByProject(ctx, projectID)
	if err != nil {
		s.log.Error("failed to list issue relationships (fallback)", "project_id", projectID, "error", err)
		return nil, errFailedList("issue relationships")
	}
	return envelope("issue_relationships", relationships), nil
}

func (s *Server) fallbackListPullRequests(ctx context.Context, projectID uuid.UUID) (any, error) {
	pullRequests, err := s.store.ListPullRequestsByProject(ctx, projectID)
	if err != nil {
		s.log.Error("failed to list pull requests (fallback)", "project_id", projectID, "error", err)
		return nil, errFailedList("pull requests")
	}
	return envelope("pull_requests", pullRequests), nil
}

// --- user-scoped fallbacks ---

func (s *Server) fallbackListUserWorkspaces(ctx context.Context, userID uuid.UUID) (any, error) {
	workspaces, err := s.store.ListWorkspacesByOwner(ctx, userID)
	if err != nil {
		s.log.Error("failed to list user workspaces (fallback)", "user_id", userID, "error", err)
		return nil, errFailedList("workspaces")
	}
	return envelope("workspaces", workspaces), nil
}

// --- issue-scoped fallbacks ---

func (s *Server) fallbackListIssueComments(ctx context.Context, issueID uuid.UUID) (any, error) {
	comments, err := s.store.ListIssueCommentsByIssue(ctx, issueID)
	if err != nil {
		s.log.Error("failed to list issue comments (fallback)", "issue_id", issueID, "error", err)
		return nil, errFailedList("issue comments")
	}
	return envelope("issue_comments", comments), nil
}

func (s *Server) fallbackListIssueCommentReactions(ctx context.Context, issueID uuid.UUID) (any, error) {
	reactions, err := s.store.ListIssueCommentReactionsByIssue(ctx, issueID)
	if err != nil {
		s.log.Error("failed to list issue comment reactions (fallback)", "issue_id", issueID, "error", err)
		return nil, errFailedList("issue comment reactions")
	}
	return envelope("issue_comment_reactions", reactions), nil
}
