// file: internal/services/user_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"civicfund/internal/events"
	"civicfund/internal/models"
	"civicfund/internal/repositories"
)

// userService implements UserService
type userService struct {
	userRepo repositories.UserRepository
	badges   BadgeService
	eventBus events.EventBus
	validate *validator.Validate
	logger   *zap.Logger
}

// NewUserService creates the user service.
func NewUserService(
	userRepo repositories.UserRepository,
	badges BadgeService,
	eventBus events.EventBus,
	logger *zap.Logger,
) UserService {
	return &userService{
		userRepo: userRepo,
		badges:   badges,
		eventBus: eventBus,
		validate: validator.New(),
		logger:   logger,
	}
}

// Register creates a new account and runs the registration badge hook.
func (s *userService) Register(ctx context.Context, req *RegisterUserRequest) (*models.User, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err != nil {
		return nil, WrapInternalError("failed to check email uniqueness", err)
	} else if existing != nil {
		return nil, NewConflictError("email is already registered", "EMAIL_TAKEN")
	}
	if existing, err := s.userRepo.GetByUsername(ctx, req.Username); err != nil {
		return nil, WrapInternalError("failed to check username uniqueness", err)
	} else if existing != nil {
		return nil, NewConflictError("username is already taken", "USERNAME_TAKEN")
	}

	now := time.Now()
	user := &models.User{
		Email:           req.Email,
		Username:        req.Username,
		FullName:        req.FullName,
		PhoneNumber:     req.PhoneNumber,
		Location:        req.Location,
		Bio:             req.Bio,
		RegisteredAt:    now,
		NewsletterOptIn: req.NewsletterOptIn,
		TermsAcceptedAt: &now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, WrapInternalError("failed to create user", err)
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	if s.eventBus != nil {
		event := events.NewUserRegisteredEvent(user.ID, user.Email, user.Username)
		if err := s.eventBus.PublishAsync(ctx, event); err != nil {
			s.logger.Warn("failed to publish user registered event", zap.Error(err))
		}
	}

	// Badge evaluation never fails registration.
	if _, err := s.badges.AfterRegistration(ctx, user.ID); err != nil {
		s.logger.Error("registration badge hook failed",
			zap.Int64("user_id", user.ID), zap.Error(err))
	}

	return user, nil
}

// GetByID retrieves a user by id.
func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, WrapInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, NewNotFoundError(fmt.Sprintf("user %d not found", id))
	}
	return user, nil
}

// GetByUsername retrieves a user by username.
func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, WrapInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, NewNotFoundError(fmt.Sprintf("user %s not found", username))
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of req to the user's profile.
func (s *userService) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*models.User, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	user, err := s.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = req.FullName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = req.ProfilePictureURL
	}
	if req.NewsletterOptIn != nil {
		user.NewsletterOptIn = *req.NewsletterOptIn
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, WrapInternalError("failed to update profile", err)
	}
	return user, nil
}

// SetFeaturedBadge delegates to the badge engine, which verifies the badge
// is actually earned before featuring it.
func (s *userService) SetFeaturedBadge(ctx context.Context, userID, badgeID int64) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.badges.SetFeaturedBadge(ctx, userID, badgeID)
}
