// Package model defines the row types served by the gateway. Field names
// mirror the physical table columns so fallback responses materialize the
// same rows the stream delivers.
package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	Description    *string   `db:"description" json:"description"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type Notification struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	OrganizationID uuid.UUID  `db:"organization_id" json:"organization_id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	Kind           string     `db:"kind" json:"kind"`
	Payload        []byte     `db:"payload" json:"payload"`
	ReadAt         *time.Time `db:"read_at" json:"read_at"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type OrganizationMember struct {
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Role           string    `db:"role" json:"role"`
	JoinedAt       time.Time `db:"joined_at" json:"joined_at"`
}

type User struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	DisplayName *string   `db:"display_name" json:"display_name"`
	Email       string    `db:"email" json:"email"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Tag struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProjectID uuid.UUID `db:"project_id" json:"project_id"`
	Name      string    `db:"name" json:"name"`
	Color     *string   `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type ProjectStatus struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProjectID uuid.UUID `db:"project_id" json:"project_id"`
	Name      string    `db:"name" json:"name"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Issue struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	ProjectID     uuid.UUID  `db:"project_id" json:"project_id"`
	SimpleID      string     `db:"simple_id" json:"simple_id"`
	Title         string     `db:"title" json:"title"`
	Description   *string    `db:"description" json:"description"`
	StatusID      uuid.UUID  `db:"status_id" json:"status_id"`
	Priority      *string    `db:"priority" json:"priority"`
	ParentIssueID *uuid.UUID `db:"parent_issue_id" json:"parent_issue_id"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

type Workspace struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	OwnerUserID uuid.UUID  `db:"owner_user_id" json:"owner_user_id"`
	ProjectID   *uuid.UUID `db:"project_id" json:"project_id"`
	Branch      string     `db:"branch" json:"branch"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

type IssueAssignee struct {
	IssueID    uuid.UUID `db:"issue_id" json:"issue_id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	AssignedAt time.Time `db:"assigned_at" json:"assigned_at"`
}

type IssueFollower struct {
	IssueID    uuid.UUID `db:"issue_id" json:"issue_id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	FollowedAt time.Time `db:"followed_at" json:"followed_at"`
}

type IssueTag struct {
	IssueID   uuid.UUID `db:"issue_id" json:"issue_id"`
	TagID     uuid.UUID `db:"tag_id" json:"tag_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type IssueRelationship struct {
	ID             uuid.UUID `db:"id" json:"id"`
	IssueID        uuid.UUID `db:"issue_id" json:"issue_id"`
	RelatedIssueID uuid.UUID `db:"related_issue_id" json:"related_issue_id"`
	Kind           string    `db:"kind" json:"kind"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type PullRequest struct {
	ID        uuid.UUID `db:"id" json:"id"`
	IssueID   uuid.UUID `db:"issue_id" json:"issue_id"`
	URL       string    `db:"url" json:"url"`
	Number    int64     `db:"number" json:"number"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type IssueComment struct {
	ID           uuid.UUID `db:"id" json:"id"`
	IssueID      uuid.UUID `db:"issue_id" json:"issue_id"`
	AuthorUserID uuid.UUID `db:"author_user_id" json:"author_user_id"`
	Body         string    `db:"body" json:"body"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type IssueCommentReaction struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CommentID uuid.UUID `db:"comment_id" json:"comment_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Emoji     string    `db:"emoji" json:"emoji"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
