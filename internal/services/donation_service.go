// file: internal/services/donation_service.go
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

const defaultCurrency = "EUR"

// donationService implements DonationService
type donationService struct {
	donationRepo repositories.DonationRepository
	projectRepo  repositories.ProjectRepository
	badges       BadgeService
	eventBus     events.EventBus
	validate     *validator.Validate
	logger       *zap.Logger
}

// NewDonationService creates the donation service.
func NewDonationService(
	donationRepo repositories.DonationRepository,
	projectRepo repositories.ProjectRepository,
	badges BadgeService,
	eventBus events.EventBus,
	logger *zap.Logger,
) DonationService {
	return &donationService{
		donationRepo: donationRepo,
		projectRepo:  projectRepo,
		badges:       badges,
		eventBus:     eventBus,
		validate:     validator.New(),
		logger:       logger,
	}
}

// Donate records a donation, adds it to the project's running funding
// total and runs the badge hook.
func (s *donationService) Donate(ctx context.Context, req *CreateDonationRequest) (*models.Donation, error) {
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

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	donation := &models.Donation{
		UserID:      req.UserID,
		ProjectID:   req.ProjectID,
		Amount:      req.Amount,
		Currency:    currency,
		Message:     req.Message,
		IsAnonymous: req.IsAnonymous,
	}
	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, WrapInternalError("failed to record donation", err)
	}

	if err := s.projectRepo.AddFunding(ctx, req.ProjectID, req.Amount); err != nil {
		s.logger.Warn("failed to update project funding",
			zap.Int64("project_id", req.ProjectID), zap.Error(err))
	}

	s.logger.Info("donation recorded",
		zap.Int64("donation_id", donation.ID),
		zap.Int64("project_id", donation.ProjectID),
		zap.Float64("amount", donation.Amount))

	if s.eventBus != nil {
		event := events.NewDonationMadeEvent(donation.ProjectID, donation.UserID, donation.Amount, donation.Currency)
		if err := s.eventBus.PublishAsync(ctx, event); err != nil {
			s.logger.Warn("failed to publish donation event", zap.Error(err))
		}
	}

	// Badge evaluation never fails the donation.
	if _, err := s.badges.AfterDonation(ctx, donation.ProjectID, donation.UserID); err != nil {
		s.logger.Error("donation badge hook failed",
			zap.Int64("project_id", donation.ProjectID),
			zap.Int64("user_id", donation.UserID),
			zap.Error(err))
	}

	return donation, nil
}

// GetProjectDonations returns a page of one project's donations.
func (s *donationService) GetProjectDonations(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Donation], error) {
	page, err := s.donationRepo.GetByProjectID(ctx, projectID, params.Normalize())
	if err != nil {
		return nil, WrapInternalError("failed to list project donations", err)
	}
	return page, nil
}

// GetUserDonations returns a page of one user's donations.
func (s *donationService) GetUserDonations(ctx context.Context, userID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Donation], error) {
	page, err := s.donationRepo.GetByUserID(ctx, userID, params.Normalize())
	if err != nil {
		return nil, WrapInternalError("failed to list user donations", err)
	}
	return page, nil
}

// GetProjectStats summarizes a project's donations.
func (s *donationService) GetProjectStats(ctx context.Context, projectID int64) (*DonationStats, error) {
	count, total, largest, err := s.donationRepo.StatsByProject(ctx, projectID)
	if err != nil {
		return nil, WrapInternalError("failed to load donation stats", err)
	}

	stats := &DonationStats{
		DonorCount:    count,
		TotalAmount:   total,
		LargestAmount: largest,
	}
	if count > 0 {
		stats.AverageAmount = total / float64(count)
	}
	return stats, nil
}
