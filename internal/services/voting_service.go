// file: internal/services/voting_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"civicfund/internal/events"
	"civicfund/internal/models"
	"civicfund/internal/repositories"
)

// votingService implements VotingService
type votingService struct {
	voteRepo    repositories.VoteRepository
	projectRepo repositories.ProjectRepository
	badges      BadgeService
	eventBus    events.EventBus
	logger      *zap.Logger
}

// NewVotingService creates the voting service.
func NewVotingService(
	voteRepo repositories.VoteRepository,
	projectRepo repositories.ProjectRepository,
	badges BadgeService,
	eventBus events.EventBus,
	logger *zap.Logger,
) VotingService {
	return &votingService{
		voteRepo:    voteRepo,
		projectRepo: projectRepo,
		badges:      badges,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// CastVote records one vote per user per project, refreshes the project's
// denormalized vote count and runs the badge hook. Double votes conflict.
func (s *votingService) CastVote(ctx context.Context, projectID, userID int64) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return WrapInternalError("failed to load project", err)
	}
	if project == nil {
		return NewNotFoundError(fmt.Sprintf("project %d not found", projectID))
	}

	vote := &models.Vote{UserID: userID, ProjectID: projectID}
	if err := s.voteRepo.Create(ctx, vote); err != nil {
		if errors.Is(err, repositories.ErrDuplicateVote) {
			return NewConflictError("user has already voted for this project", "ALREADY_VOTED")
		}
		return WrapInternalError("failed to cast vote", err)
	}

	if err := s.syncVoteCount(ctx, projectID); err != nil {
		s.logger.Warn("failed to sync vote count", zap.Int64("project_id", projectID), zap.Error(err))
	}

	if s.eventBus != nil {
		if err := s.eventBus.PublishAsync(ctx, events.NewVoteCastEvent(projectID, userID)); err != nil {
			s.logger.Warn("failed to publish vote cast event", zap.Error(err))
		}
	}

	// Badge evaluation never fails the vote.
	if _, err := s.badges.AfterVote(ctx, projectID, userID); err != nil {
		s.logger.Error("vote badge hook failed",
			zap.Int64("project_id", projectID),
			zap.Int64("user_id", userID),
			zap.Error(err))
	}
	return nil
}

// RemoveVote withdraws a vote. Earned badges are not revoked; the ledger
// records history, not current standing.
func (s *votingService) RemoveVote(ctx context.Context, projectID, userID int64) error {
	exists, err := s.voteRepo.Exists(ctx, userID, projectID)
	if err != nil {
		return WrapInternalError("failed to check vote", err)
	}
	if !exists {
		return NewNotFoundError("vote not found")
	}

	if err := s.voteRepo.Delete(ctx, userID, projectID); err != nil {
		return WrapInternalError("failed to remove vote", err)
	}

	if err := s.syncVoteCount(ctx, projectID); err != nil {
		s.logger.Warn("failed to sync vote count", zap.Int64("project_id", projectID), zap.Error(err))
	}

	if s.eventBus != nil {
		if err := s.eventBus.PublishAsync(ctx, events.NewVoteRemovedEvent(projectID, userID)); err != nil {
			s.logger.Warn("failed to publish vote removed event", zap.Error(err))
		}
	}
	return nil
}

// HasVoted reports whether the user has an active vote on the project.
func (s *votingService) HasVoted(ctx context.Context, projectID, userID int64) (bool, error) {
	exists, err := s.voteRepo.Exists(ctx, userID, projectID)
	if err != nil {
		return false, WrapInternalError("failed to check vote", err)
	}
	return exists, nil
}

// GetVoteCount returns the project's current vote total.
func (s *votingService) GetVoteCount(ctx context.Context, projectID int64) (int, error) {
	count, err := s.voteRepo.CountByProject(ctx, projectID)
	if err != nil {
		return 0, WrapInternalError("failed to count votes", err)
	}
	return count, nil
}

func (s *votingService) syncVoteCount(ctx context.Context, projectID int64) error {
	count, err := s.voteRepo.CountByProject(ctx, projectID)
	if err != nil {
		return err
	}
	return s.projectRepo.SetVoteCount(ctx, projectID, count)
}
