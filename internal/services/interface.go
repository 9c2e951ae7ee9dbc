// file: internal/services/interface.go
package services

import (
	"context"

	"civicfund/internal/models"
)

// BadgeService is the badge engine: catalog access, the rule evaluator and
// the dispatcher hooks invoked by the mutating services.
type BadgeService interface {
	// Catalog
	SeedCatalog(ctx context.Context) error
	ListCatalog(ctx context.Context, category string) ([]*models.Badge, error)

	// Award reads
	GetProjectBadges(ctx context.Context, projectID int64) ([]*models.ProjectBadge, error)
	GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error)
	SetFeaturedBadge(ctx context.Context, userID, badgeID int64) error

	// Evaluator. Each call is a full stateless pass over the active rules
	// for one subject; a missing subject is a no-op.
	EvaluateProject(ctx context.Context, projectID int64) ([]*models.ProjectBadge, error)
	EvaluateUser(ctx context.Context, userID int64, contextProjectID *int64) ([]*models.UserBadge, error)

	// Dispatcher hooks. Each returns the ids of newly granted awards and
	// never makes the triggering mutation fail: callers log hook errors.
	AfterVote(ctx context.Context, projectID, userID int64) (*AwardResult, error)
	AfterDonation(ctx context.Context, projectID, userID int64) (*AwardResult, error)
	AfterComment(ctx context.Context, projectID, userID int64) (*AwardResult, error)
	AfterProjectCreation(ctx context.Context, projectID, userID int64) (*AwardResult, error)
	AfterRegistration(ctx context.Context, userID int64) (*AwardResult, error)

	// Administrative backfill over the whole catalog; per-subject failures
	// are isolated and reported, never propagated.
	RecalculateAll(ctx context.Context) (*RecalculateResult, error)
}

// UserService handles registration and profile management
type UserService interface {
	Register(ctx context.Context, req *RegisterUserRequest) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*models.User, error)
	SetFeaturedBadge(ctx context.Context, userID, badgeID int64) error
}

// ProjectService handles project CRUD
type ProjectService interface {
	Create(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Update(ctx context.Context, req *UpdateProjectRequest) (*models.Project, error)
	Delete(ctx context.Context, projectID, userID int64) error
	List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error)
	ListByUser(ctx context.Context, userID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error)
}

// VotingService handles votes
type VotingService interface {
	CastVote(ctx context.Context, projectID, userID int64) error
	RemoveVote(ctx context.Context, projectID, userID int64) error
	HasVoted(ctx context.Context, projectID, userID int64) (bool, error)
	GetVoteCount(ctx context.Context, projectID int64) (int, error)
}

// DonationService handles donations
type DonationService interface {
	Donate(ctx context.Context, req *CreateDonationRequest) (*models.Donation, error)
	GetProjectDonations(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Donation], error)
	GetUserDonations(ctx context.Context, userID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Donation], error)
	GetProjectStats(ctx context.Context, projectID int64) (*DonationStats, error)
}

// CommentService handles project and timeline discussion
type CommentService interface {
	Create(ctx context.Context, req *CreateCommentRequest) (*models.Comment, error)
	Update(ctx context.Context, req *UpdateCommentRequest) (*models.Comment, error)
	Delete(ctx context.Context, commentID, userID int64) error
	GetProjectComments(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Comment], error)
	GetTimelineItemComments(ctx context.Context, timelineItemID int64) ([]*models.Comment, error)
}

// TimelineService handles project timelines
type TimelineService interface {
	Create(ctx context.Context, req *CreateTimelineItemRequest) (*models.TimelineItem, error)
	Update(ctx context.Context, req *UpdateTimelineItemRequest) (*models.TimelineItem, error)
	Complete(ctx context.Context, timelineItemID, userID int64) (*models.TimelineItem, error)
	Delete(ctx context.Context, timelineItemID, userID int64) error
	GetProjectTimeline(ctx context.Context, projectID int64) ([]*models.TimelineItem, error)
	Reorder(ctx context.Context, projectID, userID int64, orderedIDs []int64) error
}
