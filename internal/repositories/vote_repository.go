// internal/repositories/vote_repository.go
package repositories

import (
	"context"
	"fmt"
	"time"

	"civicfund/internal/database"
	"civicfund/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// voteRepository implements VoteRepository
type voteRepository struct {
	*BaseRepository
}

// NewVoteRepository creates a new instance of VoteRepository
func NewVoteRepository(db *database.Manager, logger *zap.Logger) VoteRepository {
	return &voteRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// ErrDuplicateVote is returned when a user votes twice for a project.
var ErrDuplicateVote = fmt.Errorf("user has already voted for this project")

// Create inserts a vote. The unique constraint on (user_id, project_id)
// rejects double votes.
func (r *voteRepository) Create(ctx context.Context, vote *models.Vote) error {
	query := `
		INSERT INTO votes (user_id, project_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.QueryRowContext(ctx, query, vote.UserID, vote.ProjectID).
		Scan(&vote.ID, &vote.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateVote
		}
		return fmt.Errorf("failed to create vote: %w", err)
	}

	return nil
}

// Delete removes a user's vote for a project
func (r *voteRepository) Delete(ctx context.Context, userID, projectID int64) error {
	result, err := r.ExecContext(ctx,
		`DELETE FROM votes WHERE user_id = $1 AND project_id = $2`,
		userID, projectID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("vote not found")
	}

	return nil
}

// Exists reports whether the user has voted for the project
func (r *voteRepository) Exists(ctx context.Context, userID, projectID int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM votes WHERE user_id = $1 AND project_id = $2)`,
		userID, projectID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check vote existence: %w", err)
	}
	return exists, nil
}

// CountByProject counts total votes for a project
func (r *voteRepository) CountByProject(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE project_id = $1`, projectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count project votes: %w", err)
	}
	return count, nil
}

// CountByProjectBetween counts a project's votes inside [from, to]
func (r *voteRepository) CountByProjectBetween(ctx context.Context, projectID int64, from, to time.Time) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes
		 WHERE project_id = $1 AND created_at >= $2 AND created_at <= $3`,
		projectID, from, to,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes in window: %w", err)
	}
	return count, nil
}

// CountDistinctProjectsByUser counts distinct projects the user voted on
func (r *voteRepository) CountDistinctProjectsByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT project_id) FROM votes WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user voted projects: %w", err)
	}
	return count, nil
}
