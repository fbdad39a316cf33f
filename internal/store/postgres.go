package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crestline/shapegate/internal/model"
)

const defaultQueryTimeout = 15 * time.Second

// Postgres implements Store on a pgx connection pool. The pool is shared
// across all request goroutines; the struct holds no per-request state.
type Postgres struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, queryTimeout: defaultQueryTimeout}
}

// Connect builds a pool from databaseURL and pings it, retrying with
// exponential backoff so the gateway tolerates the database coming up after
// it during deploys.
func Connect(ctx context.Context, log *slog.Logger, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	err = backoff.Retry(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			log.Warn("postgres not ready, retrying", "error", err)
			return err
		}
		return nil
	}, policy)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	log.Info("connected to postgres", "host", cfg.ConnConfig.Host, "database", cfg.ConnConfig.Database)
	return pool, nil
}

// listRows runs a query under the store's timeout ceiling and scans every
// row into T by column name.
func listRows[T any](ctx context.Context, p *Postgres, query string, args ...any) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
}

func (p *Postgres) exists(ctx context.Context, query string, args ...any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()

	var found bool
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

// --- access checks ---

func (p *Postgres) IsOrganizationMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	return p.exists(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM organization_member_metadata
			WHERE organization_id = $1 AND user_id = $2
		)`, orgID, userID)
}

func (p *Postgres) HasProjectAccess(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	return p.exists(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM projects pr
			JOIN organization_member_metadata omm ON omm.organization_id = pr.organization_id
			WHERE pr.id = $1 AND omm.user_id = $2
		)`, projectID, userID)
}

func (p *Postgres) HasIssueAccess(ctx context.Context, userID, issueID uuid.UUID) (bool, error) {
	return p.exists(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM issues i
			JOIN projects pr ON pr.id = i.project_id
			JOIN organization_member_metadata omm ON omm.organization_id = pr.organization_id
			WHERE i.id = $1 AND omm.user_id = $2
		)`, issueID, userID)
}

// --- organization-scoped lists ---

func (p *Postgres) ListProjectsByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Project, error) {
	return listRows[model.Project](ctx, p, `
		SELECT id, organization_id, name, description, created_at, updated_at
		FROM projects WHERE "organization_id" = $1
		ORDER BY created_at`, orgID)
}

func (p *Postgres) ListNotificationsByOrganizationAndUser(ctx context.Context, orgID, userID uuid.UUID) ([]model.Notification, error) {
	return listRows[model.Notification](ctx, p, `
		SELECT id, organization_id, user_id, kind, payload, read_at, created_at
		FROM notifications WHERE "organization_id" = $1 AND "user_id" = $2
		ORDER BY created_at DESC`, orgID, userID)
}

func (p *Postgres) ListOrganizationMembers(ctx context.Context, orgID uuid.UUID) ([]model.OrganizationMember, error) {
	return listRows[model.OrganizationMember](ctx, p, `
		SELECT organization_id, user_id, role, joined_at
		FROM organization_member_metadata WHERE "organization_id" = $1
		ORDER BY joined_at`, orgID)
}

func (p *Postgres) ListUsersByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.User, error) {
	return listRows[model.User](ctx, p, `
		SELECT id, username, display_name, email, created_at
		FROM users
		WHERE "id" IN (SELECT user_id FROM organization_member_metadata WHERE "organization_id" = $1)
		ORDER BY username`, orgID)
}

// --- project-scoped lists ---

func (p *Postgres) ListTagsByProject(ctx context.Context, projectID uuid.UUID) ([]model.Tag, error) {
	return listRows[model.Tag](ctx, p, `
		SELECT id, project_id, name, color, created_at
		FROM tags WHERE "project_id" = $1
		ORDER BY name`, projectID)
}

func (p *Postgres) ListProjectStatusesByProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectStatus, error) {
	return listRows[model.ProjectStatus](ctx, p, `
		SELECT id, project_id, name, sort_order, created_at
		FROM project_statuses WHERE "project_id" = $1
		ORDER BY sort_order`, projectID)
}

func (p *Postgres) ListIssuesByProject(ctx context.Context, projectID uuid.UUID) ([]model.Issue, error) {
	return listRows[model.Issue](ctx, p, `
		SELECT id, project_id, simple_id, title, description, status_id, priority,
		       parent_issue_id, created_at, updated_at
		FROM issues WHERE "project_id" = $1
		ORDER BY created_at`, projectID)
}

func (p *Postgres) ListWorkspacesByOwner(ctx context.Context, userID uuid.UUID) ([]model.Workspace, error) {
	return listRows[model.Workspace](ctx, p, `
		SELECT id, owner_user_id, project_id, branch, created_at, updated_at
		FROM workspaces WHERE "owner_user_id" = $1
		ORDER BY created_at`, userID)
}

func (p *Postgres) ListWorkspacesByProject(ctx context.Context, projectID uuid.UUID) ([]model.Workspace, error) {
	return listRows[model.Workspace](ctx, p, `
		SELECT id, owner_user_id, project_id, branch, created_at, updated_at
		FROM workspaces WHERE "project_id" = $1
		ORDER BY created_at`, projectID)
}

func (p *Postgres) ListIssueAssigneesByProject(ctx context.Context, projectID uuid.UUID) ([]model.IssueAssignee, error) {
	return listRows[model.IssueAssignee](ctx, p, `
		SELECT issue_id, user_id, assigned_at
		FROM issue_assignees
		WHERE "issue_id" IN (SELECT id FROM issues WHERE "project_id" = $1)`, projectID)
}

func (p *Postgres) ListIssueFollowersByProject(ctx context.Context, projectID uuid.UUID) ([]model.IssueFollower, error) {
	return listRows[model.IssueFollower](ctx, p, `
		SELECT issue_id, user_id, followed_at
		FROM issue_followers
		WHERE "issue_id" IN (SELECT id FROM issues WHERE "project_id" = $1)`, projectID)
}

func (p *Postgres) ListIssueTagsByProject(ctx context.Context, projectID uuid.UUID) ([]model.IssueTag, error) {
	return listRows[model.IssueTag](ctx, p, `
		SELECT issue_id, tag_id, created_at
		FROM issue_tags
		WHERE "issue_id" IN (SELECT id FROM issues WHERE "project_id" = $1)`, projectID)
}

func (p *Postgres) ListIssueRelationshipsByProject(ctx context.Context, projectID uuid.UUID) ([]model.IssueRelationship, error) {
	return listRows[model.IssueRelationship](ctx, p, `
		SELECT id, issue_id, related_issue_id, kind, created_at
		FROM issue_relationships
		WHERE "issue_id" IN (SELECT id FROM issues WHERE "project_id" = $1)`, projectID)
}

func (p *Postgres) ListPullRequestsByProject(ctx context.Context, projectID uuid.UUID) ([]model.PullRequest, error) {
	return listRows[model.PullRequest](ctx, p, `
		SELECT id, issue_id, url, number, status, created_at, updated_at
		FROM pull_requests
		WHERE "issue_id" IN (SELECT id FROM issues WHERE "project_id" = $1)`, projectID)
}

// --- issue-scoped lists ---

func (p *Postgres) ListIssueCommentsByIssue(ctx context.Context, issueID uuid.UUID) ([]model.IssueComment, error) {
	return listRows[model.IssueComment](ctx, p, `
		SELECT id, issue_id, author_user_id, body, created_at, updated_at
		FROM issue_comments WHERE "issue_id" = $1
		ORDER BY created_at`, issueID)
}

func (p *Postgres) ListIssueCommentReactionsByIssue(ctx context.Context, issueID uuid.UUID) ([]model.IssueCommentReaction, error) {
	return listRows[model.IssueCommentReaction](ctx, p, `
		SELECT id, comment_id, user_id, emoji, created_at
		FROM issue_comment_reactions
		WHERE "comment_id" IN (SELECT id FROM issue_comments WHERE "issue_id" = $1)`, issueID)
}

var _ Store = (*Postgres)(nil)
