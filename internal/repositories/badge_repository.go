// internal/repositories/badge_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"civicfund/internal/database"
	"civicfund/internal/models"

	"go.uber.org/zap"
)

// badgeRepository implements BadgeRepository: the badge catalog plus the
// award ledger for both projects and users.
type badgeRepository struct {
	*BaseRepository
}

// NewBadgeRepository creates a new instance of BadgeRepository
func NewBadgeRepository(db *database.Manager, logger *zap.Logger) BadgeRepository {
	return &badgeRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const badgeColumns = `
	id, name, description, category, badge_type, icon, color, is_active,
	criteria_value, criteria_projects, criteria_votes, criteria_donations,
	criteria_comments, created_at`

// ===============================
// CATALOG
// ===============================

// SeedDefinitions upserts catalog rows keyed by (category, badge_type).
// Existing rows keep their identity; display fields and thresholds are
// refreshed from the seed.
func (r *badgeRepository) SeedDefinitions(ctx context.Context, definitions []*models.Badge) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO badges (
				name, description, category, badge_type, icon, color, is_active,
				criteria_value, criteria_projects, criteria_votes,
				criteria_donations, criteria_comments
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (category, badge_type) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				icon = EXCLUDED.icon,
				color = EXCLUDED.color,
				is_active = EXCLUDED.is_active,
				criteria_value = EXCLUDED.criteria_value,
				criteria_projects = EXCLUDED.criteria_projects,
				criteria_votes = EXCLUDED.criteria_votes,
				criteria_donations = EXCLUDED.criteria_donations,
				criteria_comments = EXCLUDED.criteria_comments
			RETURNING id`

		for _, def := range definitions {
			err := tx.QueryRowContext(ctx, query,
				def.Name, def.Description, def.Category, def.BadgeType,
				def.Icon, def.Color, def.IsActive,
				def.CriteriaValue, def.CriteriaProjects, def.CriteriaVotes,
				def.CriteriaDonations, def.CriteriaComments,
			).Scan(&def.ID)
			if err != nil {
				return fmt.Errorf("failed to seed badge %s/%s: %w", def.Category, def.BadgeType, err)
			}
		}

		r.GetLogger().Info("badge catalog seeded", zap.Int("definitions", len(definitions)))
		return nil
	})
}

// ListActive returns active definitions for a category in stable catalog
// order (category, then name).
func (r *badgeRepository) ListActive(ctx context.Context, category string) ([]*models.Badge, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM badges
		WHERE category = $1 AND is_active = true
		ORDER BY category, name`, badgeColumns)

	rows, err := r.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list active badges: %w", err)
	}
	defer rows.Close()

	var badges []*models.Badge
	for rows.Next() {
		badge, err := scanBadge(rows)
		if err != nil {
			return nil, err
		}
		badges = append(badges, badge)
	}
	return badges, rows.Err()
}

// GetDefinitionByType fetches one catalog row by its dispatch key
func (r *badgeRepository) GetDefinitionByType(ctx context.Context, category, badgeType string) (*models.Badge, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM badges
		WHERE category = $1 AND badge_type = $2`, badgeColumns)

	row := r.QueryRowContext(ctx, query, category, badgeType)
	badge, err := scanBadge(row)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return badge, nil
}

type rowScanner interface {
	Scan(...interface{}) error
}

func scanBadge(row rowScanner) (*models.Badge, error) {
	var badge models.Badge
	err := row.Scan(
		&badge.ID, &badge.Name, &badge.Description, &badge.Category,
		&badge.BadgeType, &badge.Icon, &badge.Color, &badge.IsActive,
		&badge.CriteriaValue, &badge.CriteriaProjects, &badge.CriteriaVotes,
		&badge.CriteriaDonations, &badge.CriteriaComments, &badge.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan badge: %w", err)
	}
	return &badge, nil
}

// ===============================
// LEDGER EXISTENCE CHECKS
// ===============================

// HasProjectAward reports whether the project already earned the badge
func (r *badgeRepository) HasProjectAward(ctx context.Context, projectID, badgeID int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM project_badges WHERE project_id = $1 AND badge_id = $2)`,
		projectID, badgeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check project award: %w", err)
	}
	return exists, nil
}

// HasUserAward reports whether the user already earned the badge
func (r *badgeRepository) HasUserAward(ctx context.Context, userID, badgeID int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_badges WHERE user_id = $1 AND badge_id = $2)`,
		userID, badgeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user award: %w", err)
	}
	return exists, nil
}

// ===============================
// LEDGER WRITES
// ===============================

// RecordProjectAwards persists an award batch in one transaction. The
// unique constraint on (project_id, badge_id) plus ON CONFLICT DO NOTHING
// makes concurrent evaluations of the same subject race-safe; rows lost to
// the conflict clause are dropped from the returned slice.
func (r *badgeRepository) RecordProjectAwards(ctx context.Context, awards []*models.ProjectBadge) ([]*models.ProjectBadge, error) {
	if len(awards) == 0 {
		return nil, nil
	}

	var inserted []*models.ProjectBadge
	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO project_badges (project_id, badge_id, earned_at, earned_value, is_active, is_featured)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (project_id, badge_id) DO NOTHING
			RETURNING id`

		for _, award := range awards {
			err := tx.QueryRowContext(ctx, query,
				award.ProjectID, award.BadgeID, award.EarnedAt,
				award.EarnedValue, award.IsActive, award.IsFeatured,
			).Scan(&award.ID)
			if err == sql.ErrNoRows {
				// Lost the race to a concurrent evaluation; drop silently.
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to record project award: %w", err)
			}
			inserted = append(inserted, award)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return inserted, nil
}

// RecordUserAwards mirrors RecordProjectAwards for the user ledger.
func (r *badgeRepository) RecordUserAwards(ctx context.Context, awards []*models.UserBadge) ([]*models.UserBadge, error) {
	if len(awards) == 0 {
		return nil, nil
	}

	var inserted []*models.UserBadge
	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO user_badges (user_id, badge_id, earned_at, context_project_id, context_value, is_featured)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, badge_id) DO NOTHING
			RETURNING id`

		for _, award := range awards {
			err := tx.QueryRowContext(ctx, query,
				award.UserID, award.BadgeID, award.EarnedAt,
				award.ContextProjectID, award.ContextValue, award.IsFeatured,
			).Scan(&award.ID)
			if err == sql.ErrNoRows {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to record user award: %w", err)
			}
			inserted = append(inserted, award)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return inserted, nil
}

// ===============================
// LEDGER READS
// ===============================

// GetProjectAwards returns a project's active awards with badge details
func (r *badgeRepository) GetProjectAwards(ctx context.Context, projectID int64) ([]*models.ProjectBadge, error) {
	query := `
		SELECT pb.id, pb.project_id, pb.badge_id, pb.earned_at,
			pb.earned_value, pb.is_active, pb.is_featured,
			b.id, b.name, b.description, b.category, b.badge_type, b.icon,
			b.color, b.is_active, b.criteria_value, b.criteria_projects,
			b.criteria_votes, b.criteria_donations, b.criteria_comments,
			b.created_at
		FROM project_badges pb
		INNER JOIN badges b ON pb.badge_id = b.id
		WHERE pb.project_id = $1 AND pb.is_active = true
		ORDER BY pb.earned_at DESC`

	rows, err := r.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project awards: %w", err)
	}
	defer rows.Close()

	var awards []*models.ProjectBadge
	for rows.Next() {
		var award models.ProjectBadge
		var badge models.Badge
		if err := rows.Scan(
			&award.ID, &award.ProjectID, &award.BadgeID, &award.EarnedAt,
			&award.EarnedValue, &award.IsActive, &award.IsFeatured,
			&badge.ID, &badge.Name, &badge.Description, &badge.Category,
			&badge.BadgeType, &badge.Icon, &badge.Color, &badge.IsActive,
			&badge.CriteriaValue, &badge.CriteriaProjects, &badge.CriteriaVotes,
			&badge.CriteriaDonations, &badge.CriteriaComments, &badge.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project award: %w", err)
		}
		award.Badge = &badge
		awards = append(awards, &award)
	}
	return awards, rows.Err()
}

// GetUserAwards returns a user's awards with badge details
func (r *badgeRepository) GetUserAwards(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	query := `
		SELECT ub.id, ub.user_id, ub.badge_id, ub.earned_at,
			ub.context_project_id, ub.context_value, ub.is_featured,
			ub.progress_value, ub.progress_updated,
			b.id, b.name, b.description, b.category, b.badge_type, b.icon,
			b.color, b.is_active, b.criteria_value, b.criteria_projects,
			b.criteria_votes, b.criteria_donations, b.criteria_comments,
			b.created_at
		FROM user_badges ub
		INNER JOIN badges b ON ub.badge_id = b.id
		WHERE ub.user_id = $1
		ORDER BY ub.earned_at DESC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user awards: %w", err)
	}
	defer rows.Close()

	var awards []*models.UserBadge
	for rows.Next() {
		var award models.UserBadge
		var badge models.Badge
		if err := rows.Scan(
			&award.ID, &award.UserID, &award.BadgeID, &award.EarnedAt,
			&award.ContextProjectID, &award.ContextValue, &award.IsFeatured,
			&award.ProgressValue, &award.ProgressUpdated,
			&badge.ID, &badge.Name, &badge.Description, &badge.Category,
			&badge.BadgeType, &badge.Icon, &badge.Color, &badge.IsActive,
			&badge.CriteriaValue, &badge.CriteriaProjects, &badge.CriteriaVotes,
			&badge.CriteriaDonations, &badge.CriteriaComments, &badge.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user award: %w", err)
		}
		award.Badge = &badge
		awards = append(awards, &award)
	}
	return awards, rows.Err()
}

// CountUserAwards counts a user's awards, used to refresh the denormalized
// users.badge_count projection.
func (r *badgeRepository) CountUserAwards(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_badges WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user awards: %w", err)
	}
	return count, nil
}

// ===============================
// FEATURED BADGE
// ===============================

// SetFeaturedUserBadge moves the featured flag to the chosen badge inside
// one transaction. The target award must exist.
func (r *badgeRepository) SetFeaturedUserBadge(ctx context.Context, userID, badgeID int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE user_badges SET is_featured = false WHERE user_id = $1`, userID,
		); err != nil {
			return fmt.Errorf("failed to clear featured badges: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE user_badges SET is_featured = true WHERE user_id = $1 AND badge_id = $2`,
			userID, badgeID,
		)
		if err != nil {
			return fmt.Errorf("failed to set featured badge: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read featured badge result: %w", err)
		}
		if affected == 0 {
			return sql.ErrNoRows
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET featured_badge_id = $2, updated_at = NOW() WHERE id = $1`,
			userID, badgeID,
		); err != nil {
			return fmt.Errorf("failed to denormalize featured badge: %w", err)
		}

		return nil
	})
}
