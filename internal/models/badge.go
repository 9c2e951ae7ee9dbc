// file: internal/models/badge.go
package models

import "time"

// Badge categories. The category decides which award ledger a definition
// writes to and which rule set evaluates it.
const (
	BadgeCategoryProject = "project"
	BadgeCategoryUser    = "user"
)

// Known badge type keys. The set is open: a definition whose type has no
// registered rule is skipped with a warning, so new catalog rows can ship
// ahead of their rules.
const (
	BadgeTypeRisingStar        = "rising_star"
	BadgeTypeCommunityFavorite = "community_favorite"
	BadgeTypePeoplesChoice     = "peoples_choice"
	BadgeTypeFullyFunded       = "fully_funded"
	BadgeTypeOverfunded        = "overfunded"
	BadgeTypeActiveDiscussion  = "active_discussion"
	BadgeTypeTrending          = "trending"

	BadgeTypeNewcomer        = "newcomer"
	BadgeTypeProjectCreator  = "project_creator"
	BadgeTypeProlificCreator = "prolific_creator"
	BadgeTypeMasterBuilder   = "master_builder"
	BadgeTypeSupporter       = "supporter"
	BadgeTypeChampion        = "champion"
	BadgeTypeContributor     = "contributor"
	BadgeTypePatron          = "patron"
	BadgeTypeBenefactor      = "benefactor"
	BadgeTypeEngagedCitizen  = "engaged_citizen"
	BadgeTypeCommunityLeader = "community_leader"
)

// Badge is a catalog definition describing a badge's identity and earning
// criteria. Immutable after creation except for IsActive (soft-disable);
// definitions are never deleted.
type Badge struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category" validate:"required,oneof=project user"`
	BadgeType   string `json:"badge_type" db:"badge_type" validate:"required,max=50"`
	Icon        string `json:"icon" db:"icon"`
	Color       string `json:"color" db:"color"`
	IsActive    bool   `json:"is_active" db:"is_active"`

	// Simple badges use CriteriaValue; compound badges like community_leader
	// use the named thresholds.
	CriteriaValue     *int `json:"criteria_value,omitempty" db:"criteria_value"`
	CriteriaProjects  *int `json:"criteria_projects,omitempty" db:"criteria_projects"`
	CriteriaVotes     *int `json:"criteria_votes,omitempty" db:"criteria_votes"`
	CriteriaDonations *int `json:"criteria_donations,omitempty" db:"criteria_donations"`
	CriteriaComments  *int `json:"criteria_comments,omitempty" db:"criteria_comments"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ProjectBadge links a project to an earned badge. At most one row per
// (project_id, badge_id), enforced by a unique constraint.
type ProjectBadge struct {
	ID        int64     `json:"id" db:"id"`
	ProjectID int64     `json:"project_id" db:"project_id"`
	BadgeID   int64     `json:"badge_id" db:"badge_id"`
	EarnedAt  time.Time `json:"earned_at" db:"earned_at"`

	// The metric value that triggered the award (e.g. the vote count).
	EarnedValue *int `json:"earned_value,omitempty" db:"earned_value"`

	IsActive   bool `json:"is_active" db:"is_active"`
	IsFeatured bool `json:"is_featured" db:"is_featured"`

	// Badge details (joined, not stored)
	Badge *Badge `json:"badge,omitempty" db:"-"`
}

// UserBadge links a user to an earned badge. At most one row per
// (user_id, badge_id), enforced by a unique constraint.
type UserBadge struct {
	ID       int64     `json:"id" db:"id"`
	UserID   int64     `json:"user_id" db:"user_id"`
	BadgeID  int64     `json:"badge_id" db:"badge_id"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`

	// Which project triggered the award, where applicable, and the metric
	// value at award time.
	ContextProjectID *int64 `json:"context_project_id,omitempty" db:"context_project_id"`
	ContextValue     *int   `json:"context_value,omitempty" db:"context_value"`

	IsFeatured bool `json:"is_featured" db:"is_featured"`

	// Reserved for partial-progress display; the evaluator does not write
	// these yet.
	ProgressValue   *int       `json:"progress_value,omitempty" db:"progress_value"`
	ProgressUpdated *time.Time `json:"progress_updated,omitempty" db:"progress_updated"`

	// Badge details (joined, not stored)
	Badge *Badge `json:"badge,omitempty" db:"-"`
}
