// internal/repositories/project_repository.go
package repositories

import (
	"context"
	"fmt"

	"civicfund/internal/database"
	"civicfund/internal/models"

	"go.uber.org/zap"
)

// projectRepository implements ProjectRepository
type projectRepository struct {
	*BaseRepository
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *database.Manager, logger *zap.Logger) ProjectRepository {
	return &projectRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const projectColumns = `
	id, user_id, title, description, status, category, budget,
	current_funding, vote_count, tags, created_at, updated_at`

// Create inserts a new project
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (
			user_id, title, description, status, category, budget, tags
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, current_funding, vote_count, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		project.UserID, project.Title, project.Description, project.Status,
		project.Category, project.Budget, project.Tags,
	).Scan(&project.ID, &project.CurrentFunding, &project.VoteCount,
		&project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	r.GetLogger().Info("project created",
		zap.Int64("project_id", project.ID),
		zap.Int64("user_id", project.UserID),
	)

	return nil
}

// GetByID retrieves a project by ID
func (r *projectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns)

	var project models.Project
	err := r.QueryRowContext(ctx, query, id).Scan(
		&project.ID, &project.UserID, &project.Title, &project.Description,
		&project.Status, &project.Category, &project.Budget,
		&project.CurrentFunding, &project.VoteCount, &project.Tags,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// Update persists project changes
func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects SET
			title = $2, description = $3, status = $4, category = $5,
			budget = $6, tags = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		project.ID, project.Title, project.Description, project.Status,
		project.Category, project.Budget, project.Tags,
	).Scan(&project.UpdatedAt)

	if err != nil {
		if r.IsNotFound(err) {
			return fmt.Errorf("project %d not found", project.ID)
		}
		return fmt.Errorf("failed to update project: %w", err)
	}

	return nil
}

// Delete removes a project
func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %d not found", id)
	}

	return nil
}

// List returns a page of projects
func (r *projectRepository) List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error) {
	return r.listWhere(ctx, "", nil, params)
}

// GetByUserID returns a page of a user's projects
func (r *projectRepository) GetByUserID(ctx context.Context, userID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error) {
	return r.listWhere(ctx, "user_id = $3", []interface{}{userID}, params)
}

func (r *projectRepository) listWhere(ctx context.Context, where string, extraArgs []interface{}, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error) {
	query := fmt.Sprintf(`SELECT %s FROM projects`, projectColumns)
	countQuery := `SELECT COUNT(*) FROM projects`
	if where != "" {
		query += " WHERE " + where
		countQuery += " WHERE user_id = $1"
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	args := append([]interface{}{params.Limit, params.Offset}, extraArgs...)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var project models.Project
		if err := rows.Scan(
			&project.ID, &project.UserID, &project.Title, &project.Description,
			&project.Status, &project.Category, &project.Budget,
			&project.CurrentFunding, &project.VoteCount, &project.Tags,
			&project.CreatedAt, &project.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	var total int
	if err := r.QueryRowContext(ctx, countQuery, extraArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	return &models.PaginatedResponse[*models.Project]{
		Data:    projects,
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
		HasMore: params.Offset+len(projects) < total,
	}, nil
}

// ListIDs returns every project id, used by the administrative backfill sweep.
func (r *projectRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.QueryContext(ctx, `SELECT id FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list project ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddFunding increments a project's denormalized funding total
func (r *projectRepository) AddFunding(ctx context.Context, projectID int64, amount float64) error {
	_, err := r.ExecContext(ctx,
		`UPDATE projects SET current_funding = current_funding + $2, updated_at = NOW() WHERE id = $1`,
		projectID, amount,
	)
	if err != nil {
		return fmt.Errorf("failed to add funding: %w", err)
	}
	return nil
}

// SetVoteCount refreshes a project's denormalized vote counter
func (r *projectRepository) SetVoteCount(ctx context.Context, projectID int64, count int) error {
	_, err := r.ExecContext(ctx,
		`UPDATE projects SET vote_count = $2, updated_at = NOW() WHERE id = $1`,
		projectID, count,
	)
	if err != nil {
		return fmt.Errorf("failed to set vote count: %w", err)
	}
	return nil
}

// CountByUser counts projects created by a user
func (r *projectRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user projects: %w", err)
	}
	return count, nil
}
