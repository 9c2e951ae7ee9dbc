package events

import "time"

// Event type keys for the platform's activity events.
const (
	TypeUserRegistered = "user.registered"
	TypeProjectCreated = "project.created"
	TypeVoteCast       = "vote.cast"
	TypeVoteRemoved    = "vote.removed"
	TypeDonationMade   = "donation.made"
	TypeCommentCreated = "comment.created"
	TypeBadgeAwarded   = "badge.awarded"
)

// UserRegisteredEvent is emitted when a user completes registration.
type UserRegisteredEvent struct {
	BaseEvent
	Email    string `json:"email"`
	Username string `json:"username"`
}

// NewUserRegisteredEvent creates a user registered event
func NewUserRegisteredEvent(userID int64, email, username string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseEvent: newBaseEvent(TypeUserRegistered, &userID),
		Email:     email,
		Username:  username,
	}
}

// ProjectCreatedEvent is emitted when a project is created.
type ProjectCreatedEvent struct {
	BaseEvent
	ProjectID int64  `json:"project_id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
}

// NewProjectCreatedEvent creates a project created event
func NewProjectCreatedEvent(projectID, userID int64, title, category string) *ProjectCreatedEvent {
	return &ProjectCreatedEvent{
		BaseEvent: newBaseEvent(TypeProjectCreated, &userID),
		ProjectID: projectID,
		Title:     title,
		Category:  category,
	}
}

// VoteCastEvent is emitted when a user votes for a project.
type VoteCastEvent struct {
	BaseEvent
	ProjectID int64 `json:"project_id"`
}

// NewVoteCastEvent creates a vote cast event
func NewVoteCastEvent(projectID, userID int64) *VoteCastEvent {
	return &VoteCastEvent{
		BaseEvent: newBaseEvent(TypeVoteCast, &userID),
		ProjectID: projectID,
	}
}

// VoteRemovedEvent is emitted when a user withdraws a vote.
type VoteRemovedEvent struct {
	BaseEvent
	ProjectID int64 `json:"project_id"`
}

// NewVoteRemovedEvent creates a vote removed event
func NewVoteRemovedEvent(projectID, userID int64) *VoteRemovedEvent {
	return &VoteRemovedEvent{
		BaseEvent: newBaseEvent(TypeVoteRemoved, &userID),
		ProjectID: projectID,
	}
}

// DonationMadeEvent is emitted when a donation completes.
type DonationMadeEvent struct {
	BaseEvent
	ProjectID int64   `json:"project_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// NewDonationMadeEvent creates a donation made event
func NewDonationMadeEvent(projectID, userID int64, amount float64, currency string) *DonationMadeEvent {
	return &DonationMadeEvent{
		BaseEvent: newBaseEvent(TypeDonationMade, &userID),
		ProjectID: projectID,
		Amount:    amount,
		Currency:  currency,
	}
}

// CommentCreatedEvent is emitted when a comment is posted.
type CommentCreatedEvent struct {
	BaseEvent
	CommentID      int64  `json:"comment_id"`
	ProjectID      int64  `json:"project_id"`
	TimelineItemID *int64 `json:"timeline_item_id,omitempty"`
}

// NewCommentCreatedEvent creates a comment created event
func NewCommentCreatedEvent(commentID, projectID, userID int64, timelineItemID *int64) *CommentCreatedEvent {
	return &CommentCreatedEvent{
		BaseEvent:      newBaseEvent(TypeCommentCreated, &userID),
		CommentID:      commentID,
		ProjectID:      projectID,
		TimelineItemID: timelineItemID,
	}
}

// BadgeAwardedEvent is emitted for every newly granted badge, after the
// award batch is persisted.
type BadgeAwardedEvent struct {
	BaseEvent
	BadgeID     int64     `json:"badge_id"`
	BadgeType   string    `json:"badge_type"`
	Category    string    `json:"category"`
	SubjectID   int64     `json:"subject_id"`
	EarnedValue *int      `json:"earned_value,omitempty"`
	EarnedAt    time.Time `json:"earned_at"`
}

// NewBadgeAwardedEvent creates a badge awarded event. For project badges the
// triggering user may be unknown, so userID is optional.
func NewBadgeAwardedEvent(badgeID int64, badgeType, category string, subjectID int64, earnedValue *int, userID *int64) *BadgeAwardedEvent {
	return &BadgeAwardedEvent{
		BaseEvent:   newBaseEvent(TypeBadgeAwarded, userID),
		BadgeID:     badgeID,
		BadgeType:   badgeType,
		Category:    category,
		SubjectID:   subjectID,
		EarnedValue: earnedValue,
		EarnedAt:    time.Now(),
	}
}
