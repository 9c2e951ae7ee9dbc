// internal/repositories/timeline_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"civicfund/internal/database"
	"civicfund/internal/models"

	"go.uber.org/zap"
)

// timelineRepository implements TimelineRepository
type timelineRepository struct {
	*BaseRepository
}

// NewTimelineRepository creates a new instance of TimelineRepository
func NewTimelineRepository(db *database.Manager, logger *zap.Logger) TimelineRepository {
	return &timelineRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const timelineColumns = `
	id, project_id, user_id, title, description, milestone_type,
	target_date, completed_date, is_completed, order_index, created_at`

// Create inserts a timeline item at the end of the project's timeline
func (r *timelineRepository) Create(ctx context.Context, item *models.TimelineItem) error {
	query := `
		INSERT INTO timeline_items (
			project_id, user_id, title, description, milestone_type,
			target_date, order_index
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			COALESCE((SELECT MAX(order_index) + 1 FROM timeline_items WHERE project_id = $1), 0)
		)
		RETURNING id, order_index, created_at`

	err := r.QueryRowContext(
		ctx, query,
		item.ProjectID, item.UserID, item.Title, item.Description,
		item.MilestoneType, item.TargetDate,
	).Scan(&item.ID, &item.OrderIndex, &item.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create timeline item: %w", err)
	}

	r.GetLogger().Info("timeline item created",
		zap.Int64("timeline_item_id", item.ID),
		zap.Int64("project_id", item.ProjectID),
	)

	return nil
}

// GetByID retrieves a timeline item
func (r *timelineRepository) GetByID(ctx context.Context, id int64) (*models.TimelineItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM timeline_items WHERE id = $1`, timelineColumns)

	var item models.TimelineItem
	err := r.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.ProjectID, &item.UserID, &item.Title,
		&item.Description, &item.MilestoneType, &item.TargetDate,
		&item.CompletedDate, &item.IsCompleted, &item.OrderIndex,
		&item.CreatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get timeline item: %w", err)
	}

	return &item, nil
}

// Update persists timeline item changes, including completion state
func (r *timelineRepository) Update(ctx context.Context, item *models.TimelineItem) error {
	query := `
		UPDATE timeline_items SET
			title = $2, description = $3, milestone_type = $4,
			target_date = $5, completed_date = $6, is_completed = $7
		WHERE id = $1`

	result, err := r.ExecContext(
		ctx, query,
		item.ID, item.Title, item.Description, item.MilestoneType,
		item.TargetDate, item.CompletedDate, item.IsCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to update timeline item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("timeline item %d not found", item.ID)
	}

	return nil
}

// Delete removes a timeline item
func (r *timelineRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM timeline_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete timeline item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("timeline item %d not found", id)
	}

	return nil
}

// GetByProjectID returns a project's timeline in display order
func (r *timelineRepository) GetByProjectID(ctx context.Context, projectID int64) ([]*models.TimelineItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM timeline_items
		WHERE project_id = $1
		ORDER BY order_index ASC, created_at ASC`, timelineColumns)

	rows, err := r.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline items: %w", err)
	}
	defer rows.Close()

	var items []*models.TimelineItem
	for rows.Next() {
		var item models.TimelineItem
		if err := rows.Scan(
			&item.ID, &item.ProjectID, &item.UserID, &item.Title,
			&item.Description, &item.MilestoneType, &item.TargetDate,
			&item.CompletedDate, &item.IsCompleted, &item.OrderIndex,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan timeline item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// Reorder rewrites the order index of a project's timeline in a single
// transaction so partial reorders never persist.
func (r *timelineRepository) Reorder(ctx context.Context, projectID int64, orderedIDs []int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		for index, id := range orderedIDs {
			result, err := tx.ExecContext(ctx,
				`UPDATE timeline_items SET order_index = $3
				 WHERE id = $1 AND project_id = $2`,
				id, projectID, index,
			)
			if err != nil {
				return fmt.Errorf("failed to reorder timeline item %d: %w", id, err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read reorder result: %w", err)
			}
			if affected == 0 {
				return fmt.Errorf("timeline item %d does not belong to project %d", id, projectID)
			}
		}
		return nil
	})
}
