// file: internal/services/timeline_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"civicfund/internal/models"
	"civicfund/internal/repositories"
)

// timelineService implements TimelineService
type timelineService struct {
	timelineRepo repositories.TimelineRepository
	projectRepo  repositories.ProjectRepository
	validate     *validator.Validate
	logger       *zap.Logger
}

// NewTimelineService creates the timeline service.
func NewTimelineService(
	timelineRepo repositories.TimelineRepository,
	projectRepo repositories.ProjectRepository,
	logger *zap.Logger,
) TimelineService {
	return &timelineService{
		timelineRepo: timelineRepo,
		projectRepo:  projectRepo,
		validate:     validator.New(),
		logger:       logger,
	}
}

// ownedProject loads a project and verifies the caller owns it.
func (s *timelineService) ownedProject(ctx context.Context, projectID, userID int64) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, WrapInternalError("failed to load project", err)
	}
	if project == nil {
		return nil, NewNotFoundError(fmt.Sprintf("project %d not found", projectID))
	}
	if project.UserID != userID {
		return nil, NewForbiddenError("only the project owner can manage its timeline")
	}
	return project, nil
}

// Create appends a milestone to the project timeline. Only the owner may
// add items; the repository assigns the next order index.
func (s *timelineService) Create(ctx context.Context, req *CreateTimelineItemRequest) (*models.TimelineItem, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	if _, err := s.ownedProject(ctx, req.ProjectID, req.UserID); err != nil {
		return nil, err
	}

	item := &models.TimelineItem{
		ProjectID:     req.ProjectID,
		UserID:        req.UserID,
		Title:         req.Title,
		Description:   req.Description,
		MilestoneType: req.MilestoneType,
		TargetDate:    req.TargetDate,
	}
	if err := s.timelineRepo.Create(ctx, item); err != nil {
		return nil, WrapInternalError("failed to create timeline item", err)
	}
	return item, nil
}

// Update applies the non-nil fields of req to a timeline item.
func (s *timelineService) Update(ctx context.Context, req *UpdateTimelineItemRequest) (*models.TimelineItem, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	item, err := s.timelineRepo.GetByID(ctx, req.TimelineItemID)
	if err != nil {
		return nil, WrapInternalError("failed to load timeline item", err)
	}
	if item == nil {
		return nil, NewNotFoundError(fmt.Sprintf("timeline item %d not found", req.TimelineItemID))
	}
	if _, err := s.ownedProject(ctx, item.ProjectID, req.UserID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.MilestoneType != nil {
		item.MilestoneType = *req.MilestoneType
	}
	if req.TargetDate != nil {
		item.TargetDate = req.TargetDate
	}

	if err := s.timelineRepo.Update(ctx, item); err != nil {
		return nil, WrapInternalError("failed to update timeline item", err)
	}
	return item, nil
}

// Complete marks a milestone as done. Completing is idempotent.
func (s *timelineService) Complete(ctx context.Context, timelineItemID, userID int64) (*models.TimelineItem, error) {
	item, err := s.timelineRepo.GetByID(ctx, timelineItemID)
	if err != nil {
		return nil, WrapInternalError("failed to load timeline item", err)
	}
	if item == nil {
		return nil, NewNotFoundError(fmt.Sprintf("timeline item %d not found", timelineItemID))
	}
	if _, err := s.ownedProject(ctx, item.ProjectID, userID); err != nil {
		return nil, err
	}
	if item.IsCompleted {
		return item, nil
	}

	now := time.Now()
	item.IsCompleted = true
	item.CompletedDate = &now
	if err := s.timelineRepo.Update(ctx, item); err != nil {
		return nil, WrapInternalError("failed to complete timeline item", err)
	}
	return item, nil
}

// Delete removes a timeline item and the comments attached to it.
func (s *timelineService) Delete(ctx context.Context, timelineItemID, userID int64) error {
	item, err := s.timelineRepo.GetByID(ctx, timelineItemID)
	if err != nil {
		return WrapInternalError("failed to load timeline item", err)
	}
	if item == nil {
		return NewNotFoundError(fmt.Sprintf("timeline item %d not found", timelineItemID))
	}
	if _, err := s.ownedProject(ctx, item.ProjectID, userID); err != nil {
		return err
	}

	if err := s.timelineRepo.Delete(ctx, timelineItemID); err != nil {
		return WrapInternalError("failed to delete timeline item", err)
	}
	return nil
}

// GetProjectTimeline returns a project's timeline in display order.
func (s *timelineService) GetProjectTimeline(ctx context.Context, projectID int64) ([]*models.TimelineItem, error) {
	items, err := s.timelineRepo.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, WrapInternalError("failed to load project timeline", err)
	}
	return items, nil
}

// Reorder rewrites the display order of a project's timeline items.
func (s *timelineService) Reorder(ctx context.Context, projectID, userID int64, orderedIDs []int64) error {
	if len(orderedIDs) == 0 {
		return NewValidationError("ordered ids must not be empty", nil)
	}
	if _, err := s.ownedProject(ctx, projectID, userID); err != nil {
		return err
	}

	if err := s.timelineRepo.Reorder(ctx, projectID, orderedIDs); err != nil {
		return WrapInternalError("failed to reorder timeline", err)
	}
	return nil
}
