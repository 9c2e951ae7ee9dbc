// file: internal/repositories/collection.go
package repositories

import (
	"context"
	"fmt"

	"civicfund/internal/database"

	"go.uber.org/zap"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	User     UserRepository
	Project  ProjectRepository
	Timeline TimelineRepository
	Comment  CommentRepository
	Vote     VoteRepository
	Donation DonationRepository
	Badge    BadgeRepository

	db     *database.Manager
	logger *zap.Logger
}

// NewCollection creates a new repository collection with all dependencies
func NewCollection(db *database.Manager, logger *zap.Logger) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Collection{
		User:     NewUserRepository(db, logger),
		Project:  NewProjectRepository(db, logger),
		Timeline: NewTimelineRepository(db, logger),
		Comment:  NewCommentRepository(db, logger),
		Vote:     NewVoteRepository(db, logger),
		Donation: NewDonationRepository(db, logger),
		Badge:    NewBadgeRepository(db, logger),

		db:     db,
		logger: logger,
	}, nil
}

// Health pings the underlying database
func (c *Collection) Health(ctx context.Context) error {
	return c.db.Health(ctx)
}
