// file: internal/services/aggregates.go
package services

import (
	"context"
	"time"

	"civicfund/internal/repositories"
)

// AggregateReader is the read-only view of activity aggregates the badge
// rules evaluate against. Aggregates are computed fresh on every call;
// nothing here caches.
type AggregateReader interface {
	// Project-scoped
	ProjectVoteCount(ctx context.Context, projectID int64) (int, error)
	ProjectVoteCountBetween(ctx context.Context, projectID int64, from, to time.Time) (int, error)
	ProjectDonationTotal(ctx context.Context, projectID int64) (float64, error)
	ProjectCommentCount(ctx context.Context, projectID int64) (int, error)

	// User-scoped
	UserProjectCount(ctx context.Context, userID int64) (int, error)
	UserVotedProjectCount(ctx context.Context, userID int64) (int, error)
	UserDonatedProjectCount(ctx context.Context, userID int64) (int, error)
	UserDonationTotal(ctx context.Context, userID int64) (float64, error)
	UserCommentedProjectCount(ctx context.Context, userID int64) (int, error)
}

// repositoryAggregateReader backs AggregateReader with the repository layer.
type repositoryAggregateReader struct {
	projects  repositories.ProjectRepository
	votes     repositories.VoteRepository
	donations repositories.DonationRepository
	comments  repositories.CommentRepository
}

// NewAggregateReader creates an AggregateReader over the repositories.
func NewAggregateReader(
	projects repositories.ProjectRepository,
	votes repositories.VoteRepository,
	donations repositories.DonationRepository,
	comments repositories.CommentRepository,
) AggregateReader {
	return &repositoryAggregateReader{
		projects:  projects,
		votes:     votes,
		donations: donations,
		comments:  comments,
	}
}

func (r *repositoryAggregateReader) ProjectVoteCount(ctx context.Context, projectID int64) (int, error) {
	return r.votes.CountByProject(ctx, projectID)
}

func (r *repositoryAggregateReader) ProjectVoteCountBetween(ctx context.Context, projectID int64, from, to time.Time) (int, error) {
	return r.votes.CountByProjectBetween(ctx, projectID, from, to)
}

func (r *repositoryAggregateReader) ProjectDonationTotal(ctx context.Context, projectID int64) (float64, error) {
	return r.donations.SumByProject(ctx, projectID)
}

func (r *repositoryAggregateReader) ProjectCommentCount(ctx context.Context, projectID int64) (int, error) {
	return r.comments.CountByProject(ctx, projectID)
}

func (r *repositoryAggregateReader) UserProjectCount(ctx context.Context, userID int64) (int, error) {
	return r.projects.CountByUser(ctx, userID)
}

func (r *repositoryAggregateReader) UserVotedProjectCount(ctx context.Context, userID int64) (int, error) {
	return r.votes.CountDistinctProjectsByUser(ctx, userID)
}

func (r *repositoryAggregateReader) UserDonatedProjectCount(ctx context.Context, userID int64) (int, error) {
	return r.donations.CountDistinctProjectsByUser(ctx, userID)
}

func (r *repositoryAggregateReader) UserDonationTotal(ctx context.Context, userID int64) (float64, error) {
	return r.donations.SumByUser(ctx, userID)
}

func (r *repositoryAggregateReader) UserCommentedProjectCount(ctx context.Context, userID int64) (int, error) {
	return r.comments.CountDistinctProjectsByUser(ctx, userID)
}
