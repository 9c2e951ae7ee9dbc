// file: internal/services/project_service.go
package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"civicfund/internal/events"
	"civicfund/internal/models"
	"civicfund/internal/repositories"
)

// projectService implements ProjectService
type projectService struct {
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
	badges      BadgeService
	eventBus    events.EventBus
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewProjectService creates the project service.
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	badges BadgeService,
	eventBus events.EventBus,
	logger *zap.Logger,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		badges:      badges,
		eventBus:    eventBus,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Create proposes a new project and runs the creation badge hook.
func (s *projectService) Create(ctx context.Context, req *CreateProjectRequest) (*models.Project, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, WrapInternalError("failed to load project owner", err)
	}
	if owner == nil {
		return nil, NewNotFoundError(fmt.Sprintf("user %d not found", req.UserID))
	}

	project := &models.Project{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ProjectStatusPlanning,
		Category:    req.Category,
		Budget:      req.Budget,
		Tags:        req.Tags,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, WrapInternalError("failed to create project", err)
	}

	s.logger.Info("project created",
		zap.Int64("project_id", project.ID),
		zap.Int64("user_id", project.UserID),
		zap.String("title", project.Title))

	if s.eventBus != nil {
		event := events.NewProjectCreatedEvent(project.ID, project.UserID, project.Title, project.Category)
		if err := s.eventBus.PublishAsync(ctx, event); err != nil {
			s.logger.Warn("failed to publish project created event", zap.Error(err))
		}
	}

	if _, err := s.badges.AfterProjectCreation(ctx, project.ID, project.UserID); err != nil {
		s.logger.Error("project creation badge hook failed",
			zap.Int64("project_id", project.ID), zap.Error(err))
	}

	return project, nil
}

// GetByID retrieves a project by id.
func (s *projectService) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, WrapInternalError("failed to get project", err)
	}
	if project == nil {
		return nil, NewNotFoundError(fmt.Sprintf("project %d not found", id))
	}
	return project, nil
}

// Update applies the non-nil fields of req. Only the owner may update.
func (s *projectService) Update(ctx context.Context, req *UpdateProjectRequest) (*models.Project, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	project, err := s.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != req.UserID {
		return nil, NewForbiddenError("only the project owner can update it")
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Budget != nil {
		project.Budget = *req.Budget
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Category != nil {
		project.Category = *req.Category
	}
	if req.Tags != nil {
		project.Tags = req.Tags
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, WrapInternalError("failed to update project", err)
	}
	return project, nil
}

// Delete removes a project. Only the owner may delete. Earned badges stay
// in the ledger as historical fact.
func (s *projectService) Delete(ctx context.Context, projectID, userID int64) error {
	project, err := s.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.UserID != userID {
		return NewForbiddenError("only the project owner can delete it")
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return WrapInternalError("failed to delete project", err)
	}
	s.logger.Info("project deleted",
		zap.Int64("project_id", projectID),
		zap.Int64("user_id", userID))
	return nil
}

// List returns a page of projects.
func (s *projectService) List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error) {
	page, err := s.projectRepo.List(ctx, params.Normalize())
	if err != nil {
		return nil, WrapInternalError("failed to list projects", err)
	}
	return page, nil
}

// ListByUser returns a page of one user's projects.
func (s *projectService) ListByUser(ctx context.Context, userID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error) {
	page, err := s.projectRepo.GetByUserID(ctx, userID, params.Normalize())
	if err != nil {
		return nil, WrapInternalError("failed to list user projects", err)
	}
	return page, nil
}
