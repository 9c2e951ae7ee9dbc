// file: internal/services/badge_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"civicfund/internal/cache"
	"civicfund/internal/events"
	"civicfund/internal/models"
	"civicfund/internal/repositories"
)

const catalogCacheKeyPrefix = "badges:catalog:"

// BadgeServiceConfig holds badge engine tuning.
type BadgeServiceConfig struct {
	CatalogCacheTTL time.Duration
}

// DefaultBadgeServiceConfig returns sensible defaults.
func DefaultBadgeServiceConfig() *BadgeServiceConfig {
	return &BadgeServiceConfig{
		CatalogCacheTTL: 5 * time.Minute,
	}
}

// badgeService implements BadgeService. Evaluation is stateless: every pass
// reads current aggregates and compares them against the active catalog, so
// missed hook invocations are healed by any later pass over the same subject.
type badgeService struct {
	badgeRepo   repositories.BadgeRepository
	userRepo    repositories.UserRepository
	projectRepo repositories.ProjectRepository
	agg         AggregateReader
	rules       *RuleRegistry
	cache       cache.Cache
	eventBus    events.EventBus
	logger      *zap.Logger
	config      *BadgeServiceConfig

	// Injectable for deterministic window rules in tests.
	clock func() time.Time
}

// NewBadgeService creates the badge engine service.
func NewBadgeService(
	badgeRepo repositories.BadgeRepository,
	userRepo repositories.UserRepository,
	projectRepo repositories.ProjectRepository,
	agg AggregateReader,
	rules *RuleRegistry,
	cacheStore cache.Cache,
	eventBus events.EventBus,
	logger *zap.Logger,
	config *BadgeServiceConfig,
) BadgeService {
	if config == nil {
		config = DefaultBadgeServiceConfig()
	}
	if rules == nil {
		rules = NewRuleRegistry()
	}
	return &badgeService{
		badgeRepo:   badgeRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		agg:         agg,
		rules:       rules,
		cache:       cacheStore,
		eventBus:    eventBus,
		logger:      logger,
		config:      config,
		clock:       time.Now,
	}
}

// ===============================
// CATALOG
// ===============================

// SeedCatalog upserts the built-in definitions and drops the catalog cache.
func (s *badgeService) SeedCatalog(ctx context.Context) error {
	if err := s.badgeRepo.SeedDefinitions(ctx, DefaultCatalog()); err != nil {
		return WrapInternalError("failed to seed badge catalog", err)
	}
	s.invalidateCatalogCache(ctx)
	s.logger.Info("badge catalog seeded", zap.Int("definitions", len(DefaultCatalog())))
	return nil
}

// ListCatalog returns the active definitions for a category.
func (s *badgeService) ListCatalog(ctx context.Context, category string) ([]*models.Badge, error) {
	if category != models.BadgeCategoryProject && category != models.BadgeCategoryUser {
		return nil, NewValidationError(fmt.Sprintf("unknown badge category: %s", category), nil)
	}
	return s.activeCatalog(ctx, category)
}

// activeCatalog reads the active definitions for a category through the cache.
func (s *badgeService) activeCatalog(ctx context.Context, category string) ([]*models.Badge, error) {
	key := catalogCacheKeyPrefix + category

	var cached []*models.Badge
	if s.cache != nil && cache.GetJSON(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	definitions, err := s.badgeRepo.ListActive(ctx, category)
	if err != nil {
		return nil, WrapInternalError("failed to load badge catalog", err)
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, definitions, s.config.CatalogCacheTTL); err != nil {
			s.logger.Warn("failed to cache badge catalog", zap.String("category", category), zap.Error(err))
		}
	}
	return definitions, nil
}

func (s *badgeService) invalidateCatalogCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, category := range []string{models.BadgeCategoryProject, models.BadgeCategoryUser} {
		if err := s.cache.Delete(ctx, catalogCacheKeyPrefix+category); err != nil {
			s.logger.Warn("failed to invalidate badge catalog cache", zap.String("category", category), zap.Error(err))
		}
	}
}

// ===============================
// AWARD READS
// ===============================

func (s *badgeService) GetProjectBadges(ctx context.Context, projectID int64) ([]*models.ProjectBadge, error) {
	awards, err := s.badgeRepo.GetProjectAwards(ctx, projectID)
	if err != nil {
		return nil, WrapInternalError("failed to get project badges", err)
	}
	return awards, nil
}

func (s *badgeService) GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	awards, err := s.badgeRepo.GetUserAwards(ctx, userID)
	if err != nil {
		return nil, WrapInternalError("failed to get user badges", err)
	}
	return awards, nil
}

// SetFeaturedBadge marks one earned badge as the user's featured badge.
func (s *badgeService) SetFeaturedBadge(ctx context.Context, userID, badgeID int64) error {
	err := s.badgeRepo.SetFeaturedUserBadge(ctx, userID, badgeID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return NewNotFoundError(fmt.Sprintf("badge %d is not earned by this user", badgeID))
		}
		return WrapInternalError("failed to set featured badge", err)
	}
	return nil
}

// ===============================
// DISPATCHER HOOKS
// ===============================

// AfterVote re-evaluates the voted project and the voter.
func (s *badgeService) AfterVote(ctx context.Context, projectID, userID int64) (*AwardResult, error) {
	return s.evaluateBoth(ctx, projectID, userID)
}

// AfterDonation re-evaluates the funded project and the donor.
func (s *badgeService) AfterDonation(ctx context.Context, projectID, userID int64) (*AwardResult, error) {
	return s.evaluateBoth(ctx, projectID, userID)
}

// AfterComment re-evaluates the discussed project and the commenter.
func (s *badgeService) AfterComment(ctx context.Context, projectID, userID int64) (*AwardResult, error) {
	return s.evaluateBoth(ctx, projectID, userID)
}

// AfterProjectCreation evaluates the creator only. No project badge can be
// earned by a project that has no votes, funding, or comments yet.
func (s *badgeService) AfterProjectCreation(ctx context.Context, projectID, userID int64) (*AwardResult, error) {
	result := &AwardResult{}
	userAwards, err := s.EvaluateUser(ctx, userID, &projectID)
	if err != nil {
		return result, err
	}
	for _, award := range userAwards {
		result.UserBadgeIDs = append(result.UserBadgeIDs, award.BadgeID)
	}
	return result, nil
}

// AfterRegistration evaluates the user side only; a fresh account has no
// projects to look at.
func (s *badgeService) AfterRegistration(ctx context.Context, userID int64) (*AwardResult, error) {
	result := &AwardResult{}
	userAwards, err := s.EvaluateUser(ctx, userID, nil)
	if err != nil {
		return result, err
	}
	for _, award := range userAwards {
		result.UserBadgeIDs = append(result.UserBadgeIDs, award.BadgeID)
	}
	return result, nil
}

// evaluateBoth runs the project and user evaluations, collecting both sides'
// errors so a failure on one side never hides awards from the other.
func (s *badgeService) evaluateBoth(ctx context.Context, projectID, userID int64) (*AwardResult, error) {
	result := &AwardResult{}
	var merr *multierror.Error

	projectAwards, err := s.EvaluateProject(ctx, projectID)
	if err != nil {
		merr = multierror.Append(merr, fmt.Errorf("project %d: %w", projectID, err))
	}
	for _, award := range projectAwards {
		result.ProjectBadgeIDs = append(result.ProjectBadgeIDs, award.BadgeID)
	}

	userAwards, err := s.EvaluateUser(ctx, userID, &projectID)
	if err != nil {
		merr = multierror.Append(merr, fmt.Errorf("user %d: %w", userID, err))
	}
	for _, award := range userAwards {
		result.UserBadgeIDs = append(result.UserBadgeIDs, award.BadgeID)
	}

	return result, merr.ErrorOrNil()
}

// ===============================
// EVALUATION
// ===============================

// EvaluateProject runs every active project rule against one project and
// persists newly earned awards in a single batch. A missing project is a
// no-op: evaluation may race with deletion.
func (s *badgeService) EvaluateProject(ctx context.Context, projectID int64) ([]*models.ProjectBadge, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, WrapInternalError("failed to load project for evaluation", err)
	}
	if project == nil {
		return nil, nil
	}

	definitions, err := s.activeCatalog(ctx, models.BadgeCategoryProject)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	var pending []*models.ProjectBadge
	for _, def := range definitions {
		rule, ok := s.rules.ProjectRule(def.BadgeType)
		if !ok {
			s.logger.Warn("no rule registered for badge type",
				zap.String("badge_type", def.BadgeType),
				zap.String("category", def.Category))
			continue
		}

		held, err := s.badgeRepo.HasProjectAward(ctx, projectID, def.ID)
		if err != nil {
			return nil, WrapInternalError("failed to check project award", err)
		}
		if held {
			continue
		}

		value, earned, err := rule(ctx, project, now, s.agg)
		if err != nil {
			return nil, WrapInternalError(fmt.Sprintf("failed to evaluate badge %s", def.BadgeType), err)
		}
		if !earned {
			continue
		}

		pending = append(pending, &models.ProjectBadge{
			ProjectID:   projectID,
			BadgeID:     def.ID,
			EarnedAt:    now,
			EarnedValue: value,
			IsActive:    true,
		})
	}

	if len(pending) == 0 {
		return nil, nil
	}

	inserted, err := s.badgeRepo.RecordProjectAwards(ctx, pending)
	if err != nil {
		return nil, WrapInternalError("failed to record project awards", err)
	}

	for _, award := range inserted {
		s.logger.Info("project badge awarded",
			zap.Int64("project_id", projectID),
			zap.Int64("badge_id", award.BadgeID))
		s.publishAwarded(ctx, award.BadgeID, models.BadgeCategoryProject, projectID, award.EarnedValue, definitions, nil)
	}
	return inserted, nil
}

// EvaluateUser runs every active user rule against one user and persists
// newly earned awards in a single batch. contextProjectID records which
// project's activity triggered the evaluation, when there is one.
func (s *badgeService) EvaluateUser(ctx context.Context, userID int64, contextProjectID *int64) ([]*models.UserBadge, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, WrapInternalError("failed to load user for evaluation", err)
	}
	if user == nil {
		return nil, nil
	}

	definitions, err := s.activeCatalog(ctx, models.BadgeCategoryUser)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	var pending []*models.UserBadge
	for _, def := range definitions {
		rule, ok := s.rules.UserRule(def.BadgeType)
		if !ok {
			s.logger.Warn("no rule registered for badge type",
				zap.String("badge_type", def.BadgeType),
				zap.String("category", def.Category))
			continue
		}

		held, err := s.badgeRepo.HasUserAward(ctx, userID, def.ID)
		if err != nil {
			return nil, WrapInternalError("failed to check user award", err)
		}
		if held {
			continue
		}

		value, earned, err := rule(ctx, userID, s.agg)
		if err != nil {
			return nil, WrapInternalError(fmt.Sprintf("failed to evaluate badge %s", def.BadgeType), err)
		}
		if !earned {
			continue
		}

		pending = append(pending, &models.UserBadge{
			UserID:           userID,
			BadgeID:          def.ID,
			EarnedAt:         now,
			ContextProjectID: contextProjectID,
			ContextValue:     value,
		})
	}

	if len(pending) == 0 {
		return nil, nil
	}

	inserted, err := s.badgeRepo.RecordUserAwards(ctx, pending)
	if err != nil {
		return nil, WrapInternalError("failed to record user awards", err)
	}

	if len(inserted) > 0 {
		if err := s.refreshBadgeCount(ctx, userID); err != nil {
			s.logger.Warn("failed to refresh badge count", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	for _, award := range inserted {
		s.logger.Info("user badge awarded",
			zap.Int64("user_id", userID),
			zap.Int64("badge_id", award.BadgeID))
		s.publishAwarded(ctx, award.BadgeID, models.BadgeCategoryUser, userID, award.ContextValue, definitions, &userID)
	}
	return inserted, nil
}

// refreshBadgeCount syncs the denormalized badge count on the user row.
func (s *badgeService) refreshBadgeCount(ctx context.Context, userID int64) error {
	count, err := s.badgeRepo.CountUserAwards(ctx, userID)
	if err != nil {
		return err
	}
	return s.userRepo.SetBadgeCount(ctx, userID, count)
}

// publishAwarded emits a badge.awarded event. Delivery is fire and forget:
// a full event buffer must not fail an award that is already committed.
func (s *badgeService) publishAwarded(ctx context.Context, badgeID int64, category string, subjectID int64, value *int, definitions []*models.Badge, userID *int64) {
	if s.eventBus == nil {
		return
	}
	badgeType := ""
	for _, def := range definitions {
		if def.ID == badgeID {
			badgeType = def.BadgeType
			break
		}
	}
	event := events.NewBadgeAwardedEvent(badgeID, badgeType, category, subjectID, value, userID)
	if err := s.eventBus.PublishAsync(ctx, event); err != nil {
		s.logger.Warn("failed to publish badge awarded event",
			zap.Int64("badge_id", badgeID),
			zap.Error(err))
	}
}

// ===============================
// RECALCULATION
// ===============================

// RecalculateAll sweeps every user and project through the evaluator. One
// failing subject is logged and counted, never fatal to the sweep.
func (s *badgeService) RecalculateAll(ctx context.Context) (*RecalculateResult, error) {
	result := &RecalculateResult{}

	userIDs, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return nil, WrapInternalError("failed to list users for recalculation", err)
	}
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		awards, err := s.EvaluateUser(ctx, userID, nil)
		if err != nil {
			result.SubjectFailures++
			s.logger.Error("user recalculation failed", zap.Int64("user_id", userID), zap.Error(err))
			continue
		}
		result.UsersEvaluated++
		result.UserBadgesAwarded += len(awards)
	}

	projectIDs, err := s.projectRepo.ListIDs(ctx)
	if err != nil {
		return nil, WrapInternalError("failed to list projects for recalculation", err)
	}
	for _, projectID := range projectIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		awards, err := s.EvaluateProject(ctx, projectID)
		if err != nil {
			result.SubjectFailures++
			s.logger.Error("project recalculation failed", zap.Int64("project_id", projectID), zap.Error(err))
			continue
		}
		result.ProjectsEvaluated++
		result.ProjectBadgesAwarded += len(awards)
	}

	s.logger.Info("badge recalculation finished",
		zap.Int("users_evaluated", result.UsersEvaluated),
		zap.Int("projects_evaluated", result.ProjectsEvaluated),
		zap.Int("user_badges_awarded", result.UserBadgesAwarded),
		zap.Int("project_badges_awarded", result.ProjectBadgesAwarded),
		zap.Int("subject_failures", result.SubjectFailures))
	return result, nil
}
