// internal/repositories/comment_repository.go
package repositories

import (
	"context"
	"fmt"

	"civicfund/internal/database"
	"civicfund/internal/models"

	"go.uber.org/zap"
)

// commentRepository implements CommentRepository
type commentRepository struct {
	*BaseRepository
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *database.Manager, logger *zap.Logger) CommentRepository {
	return &commentRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create inserts a new comment
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (user_id, project_id, timeline_item_id, parent_comment_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		comment.UserID, comment.ProjectID, comment.TimelineItemID,
		comment.ParentCommentID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	r.GetLogger().Info("comment created",
		zap.Int64("comment_id", comment.ID),
		zap.Int64("project_id", comment.ProjectID),
	)

	return nil
}

// GetByID retrieves a comment with author information
func (r *commentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `
		SELECT c.id, c.user_id, c.project_id, c.timeline_item_id,
			c.parent_comment_id, c.content, c.created_at, c.updated_at,
			u.username
		FROM comments c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.id = $1`

	var comment models.Comment
	err := r.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.UserID, &comment.ProjectID,
		&comment.TimelineItemID, &comment.ParentCommentID, &comment.Content,
		&comment.CreatedAt, &comment.UpdatedAt, &comment.AuthorUsername,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &comment, nil
}

// Update persists an edited comment body
func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.QueryRowContext(ctx, query, comment.ID, comment.Content).
		Scan(&comment.UpdatedAt)
	if err != nil {
		if r.IsNotFound(err) {
			return fmt.Errorf("comment %d not found", comment.ID)
		}
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}

// Delete removes a comment
func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("comment %d not found", id)
	}

	return nil
}

// GetByProjectID returns a page of a project's comments
func (r *commentRepository) GetByProjectID(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Comment], error) {
	query := `
		SELECT c.id, c.user_id, c.project_id, c.timeline_item_id,
			c.parent_comment_id, c.content, c.created_at, c.updated_at,
			u.username
		FROM comments c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.project_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.QueryContext(ctx, query, projectID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments, err := scanComments(rows)
	if err != nil {
		return nil, err
	}

	var total int
	err = r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE project_id = $1`, projectID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	return &models.PaginatedResponse[*models.Comment]{
		Data:    comments,
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
		HasMore: params.Offset+len(comments) < total,
	}, nil
}

// GetByTimelineItemID returns all comments attached to a timeline item
func (r *commentRepository) GetByTimelineItemID(ctx context.Context, timelineItemID int64) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.user_id, c.project_id, c.timeline_item_id,
			c.parent_comment_id, c.content, c.created_at, c.updated_at,
			u.username
		FROM comments c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.timeline_item_id = $1
		ORDER BY c.created_at ASC`

	rows, err := r.QueryContext(ctx, query, timelineItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline comments: %w", err)
	}
	defer rows.Close()

	return scanComments(rows)
}

// CountByProject counts a project's discussion volume. The count joins
// through timeline items, matching how the active_discussion badge defines
// a project comment.
func (r *commentRepository) CountByProject(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments c
		 INNER JOIN timeline_items ti ON c.timeline_item_id = ti.id
		 WHERE ti.project_id = $1`,
		projectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count project comments: %w", err)
	}
	return count, nil
}

// CountDistinctProjectsByUser counts distinct projects the user commented
// on, joined through timeline items.
func (r *commentRepository) CountDistinctProjectsByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT ti.project_id) FROM comments c
		 INNER JOIN timeline_items ti ON c.timeline_item_id = ti.id
		 WHERE c.user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user commented projects: %w", err)
	}
	return count, nil
}

func scanComments(rows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
}) ([]*models.Comment, error) {
	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(
			&comment.ID, &comment.UserID, &comment.ProjectID,
			&comment.TimelineItemID, &comment.ParentCommentID,
			&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
			&comment.AuthorUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}
