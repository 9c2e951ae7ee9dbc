// file: internal/models/models.go
package models

import (
	"time"

	"github.com/lib/pq"
)

// ===============================
// CORE ENTITIES
// ===============================

// User represents a registered platform member.
type User struct {
	// Primary fields
	ID       int64  `json:"id" db:"id"`
	Email    string `json:"email" db:"email" validate:"required,email,max=320"`
	Username string `json:"username" db:"username" validate:"required,min=3,max=50,alphanum"`

	// Profile information
	FullName          *string `json:"full_name,omitempty" db:"full_name" validate:"omitempty,max=100"`
	PhoneNumber       *string `json:"phone_number,omitempty" db:"phone_number" validate:"omitempty,max=30"`
	Location          *string `json:"location,omitempty" db:"location" validate:"omitempty,max=120"`
	Bio               *string `json:"bio,omitempty" db:"bio" validate:"omitempty,max=200"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty" db:"profile_picture_url" validate:"omitempty,url"`

	// Registration metadata
	RegisteredAt     time.Time  `json:"registered_at" db:"registered_at"`
	EmailVerified    bool       `json:"email_verified" db:"email_verified"`
	NewsletterOptIn  bool       `json:"newsletter_opt_in" db:"newsletter_opt_in"`
	TermsAcceptedAt  *time.Time `json:"terms_accepted_at,omitempty" db:"terms_accepted_at"`

	// Denormalized badge projection; rebuilt after every award batch and by
	// the repair sweep, never treated as a source of truth.
	BadgeCount      int    `json:"badge_count" db:"badge_count"`
	FeaturedBadgeID *int64 `json:"featured_badge_id,omitempty" db:"featured_badge_id"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProjectStatus enumerates the lifecycle states of a project.
const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
)

// Project represents a community project proposed by a user.
type Project struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"user_id" db:"user_id"`
	Title       string `json:"title" db:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" db:"description" validate:"required,max=10000"`
	Status      string `json:"status" db:"status" validate:"required,oneof=planning in_progress completed"`
	Category    string `json:"category" db:"category" validate:"required,max=100"`

	// Funding
	Budget         float64 `json:"budget" db:"budget" validate:"min=0"`
	CurrentFunding float64 `json:"current_funding" db:"current_funding"`

	// Denormalized engagement counter, maintained by the voting service.
	VoteCount int `json:"vote_count" db:"vote_count"`

	Tags pq.StringArray `json:"tags" db:"tags"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Milestone types for timeline items.
const (
	MilestonePlanning   = "planning"
	MilestoneMilestone  = "milestone"
	MilestoneUpdate     = "update"
	MilestoneCompletion = "completion"
)

// TimelineItem represents a milestone entry on a project's timeline.
// Comments attach to timeline items, so project comment aggregates join
// through this table.
type TimelineItem struct {
	ID            int64      `json:"id" db:"id"`
	ProjectID     int64      `json:"project_id" db:"project_id"`
	UserID        int64      `json:"user_id" db:"user_id"`
	Title         string     `json:"title" db:"title" validate:"required,max=200"`
	Description   string     `json:"description" db:"description" validate:"max=5000"`
	MilestoneType string     `json:"milestone_type" db:"milestone_type" validate:"required,oneof=planning milestone update completion"`
	TargetDate    *time.Time `json:"target_date,omitempty" db:"target_date"`
	CompletedDate *time.Time `json:"completed_date,omitempty" db:"completed_date"`
	IsCompleted   bool       `json:"is_completed" db:"is_completed"`
	OrderIndex    int        `json:"order_index" db:"order_index"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// Comment represents a comment on a project or one of its timeline items.
type Comment struct {
	ID              int64     `json:"id" db:"id"`
	UserID          int64     `json:"user_id" db:"user_id"`
	ProjectID       int64     `json:"project_id" db:"project_id"`
	TimelineItemID  *int64    `json:"timeline_item_id,omitempty" db:"timeline_item_id"`
	ParentCommentID *int64    `json:"parent_comment_id,omitempty" db:"parent_comment_id"`
	Content         string    `json:"content" db:"content" validate:"required,max=5000"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	// Author information (joined, not stored)
	AuthorUsername string `json:"author_username,omitempty" db:"-"`
}

// Vote represents a single user's vote for a project. One vote per
// (user, project), enforced with a unique constraint.
type Vote struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	ProjectID int64     `json:"project_id" db:"project_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Donation represents a monetary contribution to a project.
type Donation struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	ProjectID   int64     `json:"project_id" db:"project_id"`
	Amount      float64   `json:"amount" db:"amount" validate:"required,gt=0"`
	Currency    string    `json:"currency" db:"currency"`
	Message     string    `json:"message" db:"message" validate:"max=500"`
	IsAnonymous bool      `json:"is_anonymous" db:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ===============================
// SHARED TYPES
// ===============================

// PaginationParams controls offset-based listing.
type PaginationParams struct {
	Limit  int    `json:"limit" validate:"min=1,max=100"`
	Offset int    `json:"offset" validate:"min=0"`
	Sort   string `json:"sort,omitempty"`
	Order  string `json:"order,omitempty"`
}

// DefaultPagination returns the standard page size.
func DefaultPagination() PaginationParams {
	return PaginationParams{Limit: 20, Offset: 0, Sort: "created_at", Order: "desc"}
}

// Normalize clamps pagination to safe bounds and fills in defaults.
func (p PaginationParams) Normalize() PaginationParams {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Sort == "" {
		p.Sort = "created_at"
	}
	if p.Order != "asc" {
		p.Order = "desc"
	}
	return p
}

// PaginatedResponse wraps a page of results with totals.
type PaginatedResponse[T any] struct {
	Data       []T  `json:"data"`
	Total      int  `json:"total"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"has_more"`
}
