// file: internal/services/collection.go
package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"civicfund/internal/cache"
	"civicfund/internal/config"
	"civicfund/internal/events"
	"civicfund/internal/repositories"
)

// Collection holds all service instances for dependency injection
type Collection struct {
	Badge    BadgeService
	User     UserService
	Project  ProjectService
	Voting   VotingService
	Donation DonationService
	Comment  CommentService
	Timeline TimelineService
}

// Dependencies carries the shared infrastructure the services build on.
type Dependencies struct {
	Repos    *repositories.Collection
	Cache    cache.Cache
	EventBus events.EventBus
	Logger   *zap.Logger
	Badges   config.BadgeConfig
}

// NewCollection wires every service with its repositories and the badge
// engine hooks.
func NewCollection(deps Dependencies) (*Collection, error) {
	if deps.Repos == nil {
		return nil, fmt.Errorf("repository collection is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	badgeConfig := &BadgeServiceConfig{CatalogCacheTTL: deps.Badges.CatalogCacheTTL}
	if badgeConfig.CatalogCacheTTL <= 0 {
		badgeConfig.CatalogCacheTTL = 5 * time.Minute
	}

	agg := NewAggregateReader(deps.Repos.Project, deps.Repos.Vote, deps.Repos.Donation, deps.Repos.Comment)
	badges := NewBadgeService(
		deps.Repos.Badge,
		deps.Repos.User,
		deps.Repos.Project,
		agg,
		NewRuleRegistry(),
		deps.Cache,
		deps.EventBus,
		logger.Named("badges"),
		badgeConfig,
	)

	return &Collection{
		Badge:    badges,
		User:     NewUserService(deps.Repos.User, badges, deps.EventBus, logger.Named("users")),
		Project:  NewProjectService(deps.Repos.Project, deps.Repos.User, badges, deps.EventBus, logger.Named("projects")),
		Voting:   NewVotingService(deps.Repos.Vote, deps.Repos.Project, badges, deps.EventBus, logger.Named("voting")),
		Donation: NewDonationService(deps.Repos.Donation, deps.Repos.Project, badges, deps.EventBus, logger.Named("donations")),
		Comment:  NewCommentService(deps.Repos.Comment, deps.Repos.Project, deps.Repos.Timeline, badges, deps.EventBus, logger.Named("comments")),
		Timeline: NewTimelineService(deps.Repos.Timeline, deps.Repos.Project, logger.Named("timeline")),
	}, nil
}
