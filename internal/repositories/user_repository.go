// internal/repositories/user_repository.go
package repositories

import (
	"context"
	"fmt"

	"civicfund/internal/database"
	"civicfund/internal/models"

	"go.uber.org/zap"
)

// userRepository implements UserRepository
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const userColumns = `
	id, email, username, full_name, phone_number, location, bio,
	profile_picture_url, registered_at, email_verified, newsletter_opt_in,
	terms_accepted_at, badge_count, featured_badge_id, created_at, updated_at`

// Create inserts a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			email, username, full_name, phone_number, location, bio,
			profile_picture_url, registered_at, email_verified, newsletter_opt_in,
			terms_accepted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8, $9, $10)
		RETURNING id, registered_at, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		user.Email, user.Username, user.FullName, user.PhoneNumber,
		user.Location, user.Bio, user.ProfilePictureURL,
		user.EmailVerified, user.NewsletterOptIn, user.TermsAcceptedAt,
	).Scan(&user.ID, &user.RegisteredAt, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.GetLogger().Info("user created",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username = $1", username)
}

func (r *userRepository) getBy(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s`, userColumns, where)

	var user models.User
	err := r.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Username, &user.FullName,
		&user.PhoneNumber, &user.Location, &user.Bio, &user.ProfilePictureURL,
		&user.RegisteredAt, &user.EmailVerified, &user.NewsletterOptIn,
		&user.TermsAcceptedAt, &user.BadgeCount, &user.FeaturedBadgeID,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Update persists profile changes
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			full_name = $2, phone_number = $3, location = $4, bio = $5,
			profile_picture_url = $6, newsletter_opt_in = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		user.ID, user.FullName, user.PhoneNumber, user.Location,
		user.Bio, user.ProfilePictureURL, user.NewsletterOptIn,
	).Scan(&user.UpdatedAt)

	if err != nil {
		if r.IsNotFound(err) {
			return fmt.Errorf("user %d not found", user.ID)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// List returns a page of users
func (r *userRepository) List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.User], error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, userColumns)

	rows, err := r.QueryContext(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Email, &user.Username, &user.FullName,
			&user.PhoneNumber, &user.Location, &user.Bio, &user.ProfilePictureURL,
			&user.RegisteredAt, &user.EmailVerified, &user.NewsletterOptIn,
			&user.TermsAcceptedAt, &user.BadgeCount, &user.FeaturedBadgeID,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	var total int
	if err := r.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return &models.PaginatedResponse[*models.User]{
		Data:    users,
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
		HasMore: params.Offset+len(users) < total,
	}, nil
}

// ListIDs returns every user id, used by the administrative backfill sweep.
func (r *userRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetBadgeCount refreshes the denormalized badge counter
func (r *userRepository) SetBadgeCount(ctx context.Context, userID int64, count int) error {
	_, err := r.ExecContext(ctx,
		`UPDATE users SET badge_count = $2, updated_at = NOW() WHERE id = $1`,
		userID, count,
	)
	if err != nil {
		return fmt.Errorf("failed to set badge count: %w", err)
	}
	return nil
}

// SetFeaturedBadge records which badge a user features on their profile
func (r *userRepository) SetFeaturedBadge(ctx context.Context, userID, badgeID int64) error {
	_, err := r.ExecContext(ctx,
		`UPDATE users SET featured_badge_id = $2, updated_at = NOW() WHERE id = $1`,
		userID, badgeID,
	)
	if err != nil {
		return fmt.Errorf("failed to set featured badge: %w", err)
	}
	return nil
}
