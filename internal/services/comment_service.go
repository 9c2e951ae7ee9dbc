// file: internal/services/comment_service.go
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

// commentService implements CommentService
type commentService struct {
	commentRepo  repositories.CommentRepository
	projectRepo  repositories.ProjectRepository
	timelineRepo repositories.TimelineRepository
	badges       BadgeService
	eventBus     events.EventBus
	validate     *validator.Validate
	logger       *zap.Logger
}

// NewCommentService creates the comment service.
func NewCommentService(
	commentRepo repositories.CommentRepository,
	projectRepo repositories.ProjectRepository,
	timelineRepo repositories.TimelineRepository,
	badges BadgeService,
	eventBus events.EventBus,
	logger *zap.Logger,
) CommentService {
	return &commentService{
		commentRepo:  commentRepo,
		projectRepo:  projectRepo,
		timelineRepo: timelineRepo,
		badges:       badges,
		eventBus:     eventBus,
		validate:     validator.New(),
		logger:       logger,
	}
}

// Create posts a comment on a project or one of its timeline items and
// runs the badge hook.
func (s *commentService) Create(ctx context.Context, req *CreateCommentRequest) (*models.Comment, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, WrapInternalError("failed to load project", err)
	}
	if project == nil {
		return nil, NewNotFoundError(fmt.Sprintf("project %d not found", req.ProjectID))
	}

	if req.TimelineItemID != nil {
		item, err := s.timelineRepo.GetByID(ctx, *req.TimelineItemID)
		if err != nil {
			return nil, WrapInternalError("failed to load timeline item", err)
		}
		if item == nil || item.ProjectID != req.ProjectID {
			return nil, NewNotFoundError(fmt.Sprintf("timeline item %d not found on project %d", *req.TimelineItemID, req.ProjectID))
		}
	}

	if req.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentCommentID)
		if err != nil {
			return nil, WrapInternalError("failed to load parent comment", err)
		}
		if parent == nil || parent.ProjectID != req.ProjectID {
			return nil, NewNotFoundError("parent comment not found on this project")
		}
	}

	comment := &models.Comment{
		UserID:          req.UserID,
		ProjectID:       req.ProjectID,
		TimelineItemID:  req.TimelineItemID,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, WrapInternalError("failed to create comment", err)
	}

	if s.eventBus != nil {
		event := events.NewCommentCreatedEvent(comment.ID, comment.ProjectID, comment.UserID, comment.TimelineItemID)
		if err := s.eventBus.PublishAsync(ctx, event); err != nil {
			s.logger.Warn("failed to publish comment created event", zap.Error(err))
		}
	}

	// Badge evaluation never fails the comment.
	if _, err := s.badges.AfterComment(ctx, comment.ProjectID, comment.UserID); err != nil {
		s.logger.Error("comment badge hook failed",
			zap.Int64("project_id", comment.ProjectID),
			zap.Int64("user_id", comment.UserID),
			zap.Error(err))
	}

	return comment, nil
}

// Update edits a comment's body. Only the author may edit.
func (s *commentService) Update(ctx context.Context, req *UpdateCommentRequest) (*models.Comment, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, req.CommentID)
	if err != nil {
		return nil, WrapInternalError("failed to load comment", err)
	}
	if comment == nil {
		return nil, NewNotFoundError(fmt.Sprintf("comment %d not found", req.CommentID))
	}
	if comment.UserID != req.UserID {
		return nil, NewForbiddenError("only the comment author can edit it")
	}

	comment.Content = req.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, WrapInternalError("failed to update comment", err)
	}
	return comment, nil
}

// Delete removes a comment. Only the author may delete.
func (s *commentService) Delete(ctx context.Context, commentID, userID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return WrapInternalError("failed to load comment", err)
	}
	if comment == nil {
		return NewNotFoundError(fmt.Sprintf("comment %d not found", commentID))
	}
	if comment.UserID != userID {
		return NewForbiddenError("only the comment author can delete it")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return WrapInternalError("failed to delete comment", err)
	}
	return nil
}

// GetProjectComments returns a page of a project's comments.
func (s *commentService) GetProjectComments(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Comment], error) {
	page, err := s.commentRepo.GetByProjectID(ctx, projectID, params.Normalize())
	if err != nil {
		return nil, WrapInternalError("failed to list project comments", err)
	}
	return page, nil
}

// GetTimelineItemComments returns a timeline item's comments, oldest first.
func (s *commentService) GetTimelineItemComments(ctx context.Context, timelineItemID int64) ([]*models.Comment, error) {
	comments, err := s.commentRepo.GetByTimelineItemID(ctx, timelineItemID)
	if err != nil {
		return nil, WrapInternalError("failed to list timeline item comments", err)
	}
	return comments, nil
}
