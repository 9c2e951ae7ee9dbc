// file: internal/repositories/interfaces.go
package repositories

import (
	"context"
	"time"

	"civicfund/internal/models"
)

// ===============================
// CORE REPOSITORY INTERFACES
// ===============================

// UserRepository defines the contract for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.User], error)
	ListIDs(ctx context.Context) ([]int64, error)

	// Badge projection maintenance
	SetBadgeCount(ctx context.Context, userID int64, count int) error
	SetFeaturedBadge(ctx context.Context, userID, badgeID int64) error
}

// ProjectRepository defines the contract for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error)
	GetByUserID(ctx context.Context, userID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error)
	ListIDs(ctx context.Context) ([]int64, error)

	AddFunding(ctx context.Context, projectID int64, amount float64) error
	SetVoteCount(ctx context.Context, projectID int64, count int) error

	// Aggregates
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// TimelineRepository defines the contract for timeline item operations
type TimelineRepository interface {
	Create(ctx context.Context, item *models.TimelineItem) error
	GetByID(ctx context.Context, id int64) (*models.TimelineItem, error)
	Update(ctx context.Context, item *models.TimelineItem) error
	Delete(ctx context.Context, id int64) error
	GetByProjectID(ctx context.Context, projectID int64) ([]*models.TimelineItem, error)
	Reorder(ctx context.Context, projectID int64, orderedIDs []int64) error
}

// CommentRepository defines the contract for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) error
	GetByProjectID(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Comment], error)
	GetByTimelineItemID(ctx context.Context, timelineItemID int64) ([]*models.Comment, error)

	// Aggregates. Project comment counts join through timeline items.
	CountByProject(ctx context.Context, projectID int64) (int, error)
	CountDistinctProjectsByUser(ctx context.Context, userID int64) (int, error)
}

// VoteRepository defines the contract for vote data operations
type VoteRepository interface {
	Create(ctx context.Context, vote *models.Vote) error
	Delete(ctx context.Context, userID, projectID int64) error
	Exists(ctx context.Context, userID, projectID int64) (bool, error)

	// Aggregates
	CountByProject(ctx context.Context, projectID int64) (int, error)
	CountByProjectBetween(ctx context.Context, projectID int64, from, to time.Time) (int, error)
	CountDistinctProjectsByUser(ctx context.Context, userID int64) (int, error)
}

// DonationRepository defines the contract for donation data operations
type DonationRepository interface {
	Create(ctx context.Context, donation *models.Donation) error
	GetByProjectID(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Donation], error)
	GetByUserID(ctx context.Context, userID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Donation], error)

	// Aggregates
	SumByProject(ctx context.Context, projectID int64) (float64, error)
	SumByUser(ctx context.Context, userID int64) (float64, error)
	CountDistinctProjectsByUser(ctx context.Context, userID int64) (int, error)
	StatsByProject(ctx context.Context, projectID int64) (count int, total, largest float64, err error)
}

// BadgeRepository is the badge catalog plus the award ledger.
type BadgeRepository interface {
	// Catalog
	SeedDefinitions(ctx context.Context, definitions []*models.Badge) error
	ListActive(ctx context.Context, category string) ([]*models.Badge, error)
	GetDefinitionByType(ctx context.Context, category, badgeType string) (*models.Badge, error)

	// Ledger existence checks
	HasProjectAward(ctx context.Context, projectID, badgeID int64) (bool, error)
	HasUserAward(ctx context.Context, userID, badgeID int64) (bool, error)

	// Ledger writes. Batched inside one transaction; inserts use
	// ON CONFLICT DO NOTHING so a concurrent evaluation for the same subject
	// can never produce a duplicate award. Only rows actually inserted are
	// returned.
	RecordProjectAwards(ctx context.Context, awards []*models.ProjectBadge) ([]*models.ProjectBadge, error)
	RecordUserAwards(ctx context.Context, awards []*models.UserBadge) ([]*models.UserBadge, error)

	// Ledger reads
	GetProjectAwards(ctx context.Context, projectID int64) ([]*models.ProjectBadge, error)
	GetUserAwards(ctx context.Context, userID int64) ([]*models.UserBadge, error)
	CountUserAwards(ctx context.Context, userID int64) (int, error)

	// Featured badge handling
	SetFeaturedUserBadge(ctx context.Context, userID, badgeID int64) error
}
