// file: internal/services/types.go
package services

import "time"

// ===============================
// USER REQUESTS
// ===============================

// RegisterUserRequest carries the fields needed to register a user
type RegisterUserRequest struct {
	Email           string  `json:"email" validate:"required,email,max=320"`
	Username        string  `json:"username" validate:"required,min=3,max=50,alphanum"`
	FullName        *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	PhoneNumber     *string `json:"phone_number,omitempty" validate:"omitempty,max=30"`
	Location        *string `json:"location,omitempty" validate:"omitempty,max=120"`
	Bio             *string `json:"bio,omitempty" validate:"omitempty,max=200"`
	NewsletterOptIn bool    `json:"newsletter_opt_in"`
	TermsAccepted   bool    `json:"terms_accepted" validate:"required,eq=true"`
}

// UpdateProfileRequest carries editable profile fields
type UpdateProfileRequest struct {
	UserID            int64   `json:"user_id" validate:"required"`
	FullName          *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	PhoneNumber       *string `json:"phone_number,omitempty" validate:"omitempty,max=30"`
	Location          *string `json:"location,omitempty" validate:"omitempty,max=120"`
	Bio               *string `json:"bio,omitempty" validate:"omitempty,max=200"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty" validate:"omitempty,url"`
	NewsletterOptIn   *bool   `json:"newsletter_opt_in,omitempty"`
}

// ===============================
// PROJECT REQUESTS
// ===============================

// CreateProjectRequest carries the fields needed to create a project
type CreateProjectRequest struct {
	UserID      int64    `json:"user_id" validate:"required"`
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"required,max=10000"`
	Budget      float64  `json:"budget" validate:"min=0"`
	Category    string   `json:"category" validate:"required,max=100"`
	Tags        []string `json:"tags,omitempty" validate:"max=20,dive,max=50"`
}

// UpdateProjectRequest carries editable project fields; nil fields are left
// unchanged. Only the project owner may update.
type UpdateProjectRequest struct {
	ProjectID   int64    `json:"project_id" validate:"required"`
	UserID      int64    `json:"user_id" validate:"required"`
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=10000"`
	Budget      *float64 `json:"budget,omitempty" validate:"omitempty,min=0"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=planning in_progress completed"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Tags        []string `json:"tags,omitempty" validate:"max=20,dive,max=50"`
}

// ===============================
// ACTIVITY REQUESTS
// ===============================

// CreateDonationRequest carries the fields needed to make a donation
type CreateDonationRequest struct {
	UserID      int64   `json:"user_id" validate:"required"`
	ProjectID   int64   `json:"project_id" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3"`
	Message     string  `json:"message" validate:"max=500"`
	IsAnonymous bool    `json:"is_anonymous"`
}

// CreateCommentRequest carries the fields needed to post a comment
type CreateCommentRequest struct {
	UserID          int64  `json:"user_id" validate:"required"`
	ProjectID       int64  `json:"project_id" validate:"required"`
	TimelineItemID  *int64 `json:"timeline_item_id,omitempty"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
	Content         string `json:"content" validate:"required,max=5000"`
}

// UpdateCommentRequest carries an edited comment body
type UpdateCommentRequest struct {
	CommentID int64  `json:"comment_id" validate:"required"`
	UserID    int64  `json:"user_id" validate:"required"`
	Content   string `json:"content" validate:"required,max=5000"`
}

// CreateTimelineItemRequest carries the fields for a new timeline entry
type CreateTimelineItemRequest struct {
	ProjectID     int64      `json:"project_id" validate:"required"`
	UserID        int64      `json:"user_id" validate:"required"`
	Title         string     `json:"title" validate:"required,max=200"`
	Description   string     `json:"description" validate:"max=5000"`
	MilestoneType string     `json:"milestone_type" validate:"required,oneof=planning milestone update completion"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
}

// UpdateTimelineItemRequest carries editable timeline item fields
type UpdateTimelineItemRequest struct {
	TimelineItemID int64      `json:"timeline_item_id" validate:"required"`
	UserID         int64      `json:"user_id" validate:"required"`
	Title          *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description    *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	MilestoneType  *string    `json:"milestone_type,omitempty" validate:"omitempty,oneof=planning milestone update completion"`
	TargetDate     *time.Time `json:"target_date,omitempty"`
}

// ===============================
// BADGE RESULTS
// ===============================

// AwardResult reports the ids of awards newly granted by one dispatcher
// hook invocation.
type AwardResult struct {
	ProjectBadgeIDs []int64 `json:"project_badge_ids"`
	UserBadgeIDs    []int64 `json:"user_badge_ids"`
}

// Empty reports whether the hook granted nothing
func (r *AwardResult) Empty() bool {
	return len(r.ProjectBadgeIDs) == 0 && len(r.UserBadgeIDs) == 0
}

// RecalculateResult summarizes an administrative backfill sweep.
type RecalculateResult struct {
	UsersEvaluated       int `json:"users_evaluated"`
	ProjectsEvaluated    int `json:"projects_evaluated"`
	UserBadgesAwarded    int `json:"user_badges_awarded"`
	ProjectBadgesAwarded int `json:"project_badges_awarded"`
	SubjectFailures      int `json:"subject_failures"`
}

// DonationStats summarizes a project's donations.
type DonationStats struct {
	DonorCount    int     `json:"donor_count"`
	TotalAmount   float64 `json:"total_amount"`
	AverageAmount float64 `json:"average_amount"`
	LargestAmount float64 `json:"largest_amount"`
}
