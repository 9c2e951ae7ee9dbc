// internal/repositories/donation_repository.go
package repositories

import (
	"context"
	"fmt"

	"civicfund/internal/database"
	"civicfund/internal/models"

	"go.uber.org/zap"
)

// donationRepository implements DonationRepository
type donationRepository struct {
	*BaseRepository
}

// NewDonationRepository creates a new instance of DonationRepository
func NewDonationRepository(db *database.Manager, logger *zap.Logger) DonationRepository {
	return &donationRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create inserts a donation
func (r *donationRepository) Create(ctx context.Context, donation *models.Donation) error {
	query := `
		INSERT INTO donations (user_id, project_id, amount, currency, message, is_anonymous)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.QueryRowContext(
		ctx, query,
		donation.UserID, donation.ProjectID, donation.Amount,
		donation.Currency, donation.Message, donation.IsAnonymous,
	).Scan(&donation.ID, &donation.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}

	r.GetLogger().Info("donation recorded",
		zap.Int64("donation_id", donation.ID),
		zap.Int64("project_id", donation.ProjectID),
		zap.Float64("amount", donation.Amount),
	)

	return nil
}

// GetByProjectID returns a page of a project's donations
func (r *donationRepository) GetByProjectID(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Donation], error) {
	return r.listWhere(ctx, "project_id", projectID, params)
}

// GetByUserID returns a page of a user's donations
func (r *donationRepository) GetByUserID(ctx context.Context, userID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Donation], error) {
	return r.listWhere(ctx, "user_id", userID, params)
}

func (r *donationRepository) listWhere(ctx context.Context, column string, id int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Donation], error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, project_id, amount, currency, message, is_anonymous, created_at
		FROM donations
		WHERE %s = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, column)

	rows, err := r.QueryContext(ctx, query, id, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	defer rows.Close()

	var donations []*models.Donation
	for rows.Next() {
		var donation models.Donation
		if err := rows.Scan(
			&donation.ID, &donation.UserID, &donation.ProjectID,
			&donation.Amount, &donation.Currency, &donation.Message,
			&donation.IsAnonymous, &donation.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, &donation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate donations: %w", err)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM donations WHERE %s = $1`, column)
	if err := r.QueryRowContext(ctx, countQuery, id).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count donations: %w", err)
	}

	return &models.PaginatedResponse[*models.Donation]{
		Data:    donations,
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
		HasMore: params.Offset+len(donations) < total,
	}, nil
}

// SumByProject returns a project's total donations
func (r *donationRepository) SumByProject(ctx context.Context, projectID int64) (float64, error) {
	var total float64
	err := r.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM donations WHERE project_id = $1`,
		projectID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum project donations: %w", err)
	}
	return total, nil
}

// SumByUser returns a user's total donated amount
func (r *donationRepository) SumByUser(ctx context.Context, userID int64) (float64, error) {
	var total float64
	err := r.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM donations WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum user donations: %w", err)
	}
	return total, nil
}

// StatsByProject returns donation count, total and largest single amount
// for a project in one round trip
func (r *donationRepository) StatsByProject(ctx context.Context, projectID int64) (int, float64, float64, error) {
	var (
		count          int
		total, largest float64
	)
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(amount), 0), COALESCE(MAX(amount), 0)
		 FROM donations WHERE project_id = $1`,
		projectID,
	).Scan(&count, &total, &largest)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to load project donation stats: %w", err)
	}
	return count, total, largest, nil
}

// CountDistinctProjectsByUser counts distinct projects the user donated to
func (r *donationRepository) CountDistinctProjectsByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT project_id) FROM donations WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user donated projects: %w", err)
	}
	return count, nil
}
