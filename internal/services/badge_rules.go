// file: internal/services/badge_rules.go
package services

import (
	"context"
	"time"

	"civicfund/internal/models"
)

// Earning thresholds. Values are part of the product contract; change them
// together with the catalog descriptions.
const (
	risingStarVotes    = 10
	risingStarWindow   = 24 * time.Hour
	favoriteVotes      = 50
	peoplesChoiceVotes = 100
	overfundedRatio    = 1.5
	discussionComments = 25
	trendingVotes      = 20
	trendingWindow     = 7 * 24 * time.Hour

	creatorProjects     = 1
	prolificProjects    = 5
	masterProjects      = 10
	supporterProjects   = 10
	championProjects    = 50
	contributorProjects = 1
	patronProjects      = 10
	benefactorTotal     = 1000
	engagedProjects     = 20

	leaderProjects  = 5
	leaderVotes     = 50
	leaderDonations = 1
)

// ProjectRuleFunc decides whether a project has earned a badge. When earned
// is true, value carries the metric that triggered the award and may be nil
// for badges that record no metric. Rules are pure: all state comes in
// through the snapshot and the aggregate reader.
type ProjectRuleFunc func(ctx context.Context, project *models.Project, now time.Time, agg AggregateReader) (value *int, earned bool, err error)

// UserRuleFunc is the user-category counterpart of ProjectRuleFunc.
type UserRuleFunc func(ctx context.Context, userID int64, agg AggregateReader) (value *int, earned bool, err error)

// RuleRegistry maps badge type keys to rule functions. The badge type set
// is open: catalog rows without a registered rule are skipped with a
// warning, so new badges can be published before their rules ship.
type RuleRegistry struct {
	project map[string]ProjectRuleFunc
	user    map[string]UserRuleFunc
}

// RegisterProjectRule adds or replaces a project-category rule.
func (r *RuleRegistry) RegisterProjectRule(badgeType string, rule ProjectRuleFunc) {
	r.project[badgeType] = rule
}

// RegisterUserRule adds or replaces a user-category rule.
func (r *RuleRegistry) RegisterUserRule(badgeType string, rule UserRuleFunc) {
	r.user[badgeType] = rule
}

// ProjectRule looks up a project-category rule by badge type.
func (r *RuleRegistry) ProjectRule(badgeType string) (ProjectRuleFunc, bool) {
	rule, ok := r.project[badgeType]
	return rule, ok
}

// UserRule looks up a user-category rule by badge type.
func (r *RuleRegistry) UserRule(badgeType string) (UserRuleFunc, bool) {
	rule, ok := r.user[badgeType]
	return rule, ok
}

func metric(v int) *int { return &v }

// NewRuleRegistry builds a registry with every built-in rule registered.
func NewRuleRegistry() *RuleRegistry {
	r := &RuleRegistry{
		project: make(map[string]ProjectRuleFunc),
		user:    make(map[string]UserRuleFunc),
	}

	// ===============================
	// PROJECT RULES
	// ===============================

	r.RegisterProjectRule(models.BadgeTypeRisingStar, func(ctx context.Context, project *models.Project, now time.Time, agg AggregateReader) (*int, bool, error) {
		// Votes inside the first 24 hours after project creation.
		count, err := agg.ProjectVoteCountBetween(ctx, project.ID, project.CreatedAt, project.CreatedAt.Add(risingStarWindow))
		if err != nil {
			return nil, false, err
		}
		if count >= risingStarVotes {
			return metric(count), true, nil
		}
		return nil, false, nil
	})

	r.RegisterProjectRule(models.BadgeTypeCommunityFavorite, totalVoteRule(favoriteVotes))
	r.RegisterProjectRule(models.BadgeTypePeoplesChoice, totalVoteRule(peoplesChoiceVotes))

	r.RegisterProjectRule(models.BadgeTypeFullyFunded, fundingRule(1.0))
	r.RegisterProjectRule(models.BadgeTypeOverfunded, fundingRule(overfundedRatio))

	r.RegisterProjectRule(models.BadgeTypeActiveDiscussion, func(ctx context.Context, project *models.Project, now time.Time, agg AggregateReader) (*int, bool, error) {
		count, err := agg.ProjectCommentCount(ctx, project.ID)
		if err != nil {
			return nil, false, err
		}
		if count >= discussionComments {
			return metric(count), true, nil
		}
		return nil, false, nil
	})

	r.RegisterProjectRule(models.BadgeTypeTrending, func(ctx context.Context, project *models.Project, now time.Time, agg AggregateReader) (*int, bool, error) {
		// Absolute threshold over the trailing window from evaluation time,
		// not from project creation. A relative most-votes-among-projects
		// comparison is deliberately not implemented.
		count, err := agg.ProjectVoteCountBetween(ctx, project.ID, now.Add(-trendingWindow), now)
		if err != nil {
			return nil, false, err
		}
		if count >= trendingVotes {
			return metric(count), true, nil
		}
		return nil, false, nil
	})

	// ===============================
	// USER RULES
	// ===============================

	r.RegisterUserRule(models.BadgeTypeNewcomer, func(ctx context.Context, userID int64, agg AggregateReader) (*int, bool, error) {
		// Granted unconditionally on the first evaluation after
		// registration; the ledger pre-check keeps it one-shot. No
		// metric to record.
		return nil, true, nil
	})

	r.RegisterUserRule(models.BadgeTypeProjectCreator, userCountRule(creatorProjects, AggregateReader.UserProjectCount))
	r.RegisterUserRule(models.BadgeTypeProlificCreator, userCountRule(prolificProjects, AggregateReader.UserProjectCount))
	r.RegisterUserRule(models.BadgeTypeMasterBuilder, userCountRule(masterProjects, AggregateReader.UserProjectCount))

	r.RegisterUserRule(models.BadgeTypeSupporter, userCountRule(supporterProjects, AggregateReader.UserVotedProjectCount))
	r.RegisterUserRule(models.BadgeTypeChampion, userCountRule(championProjects, AggregateReader.UserVotedProjectCount))

	r.RegisterUserRule(models.BadgeTypeContributor, userCountRule(contributorProjects, AggregateReader.UserDonatedProjectCount))
	r.RegisterUserRule(models.BadgeTypePatron, userCountRule(patronProjects, AggregateReader.UserDonatedProjectCount))

	r.RegisterUserRule(models.BadgeTypeBenefactor, func(ctx context.Context, userID int64, agg AggregateReader) (*int, bool, error) {
		total, err := agg.UserDonationTotal(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		if total >= benefactorTotal {
			return metric(int(total)), true, nil
		}
		return nil, false, nil
	})

	r.RegisterUserRule(models.BadgeTypeEngagedCitizen, userCountRule(engagedProjects, AggregateReader.UserCommentedProjectCount))

	r.RegisterUserRule(models.BadgeTypeCommunityLeader, func(ctx context.Context, userID int64, agg AggregateReader) (*int, bool, error) {
		// A single conjunction: creation, voting and donating thresholds
		// must all hold at once. Not three independent sub-badges.
		projects, err := agg.UserProjectCount(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		if projects < leaderProjects {
			return nil, false, nil
		}
		votes, err := agg.UserVotedProjectCount(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		if votes < leaderVotes {
			return nil, false, nil
		}
		donations, err := agg.UserDonatedProjectCount(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		if donations < leaderDonations {
			return nil, false, nil
		}
		return metric(projects), true, nil
	})

	return r
}

// totalVoteRule builds a rule earned at a total vote count threshold.
func totalVoteRule(threshold int) ProjectRuleFunc {
	return func(ctx context.Context, project *models.Project, now time.Time, agg AggregateReader) (*int, bool, error) {
		count, err := agg.ProjectVoteCount(ctx, project.ID)
		if err != nil {
			return nil, false, err
		}
		if count >= threshold {
			return metric(count), true, nil
		}
		return nil, false, nil
	}
}

// fundingRule builds a rule earned when donations reach ratio × budget.
// Projects without a budget never qualify.
func fundingRule(ratio float64) ProjectRuleFunc {
	return func(ctx context.Context, project *models.Project, now time.Time, agg AggregateReader) (*int, bool, error) {
		if project.Budget <= 0 {
			return nil, false, nil
		}
		total, err := agg.ProjectDonationTotal(ctx, project.ID)
		if err != nil {
			return nil, false, err
		}
		if total >= project.Budget*ratio {
			return metric(int(total)), true, nil
		}
		return nil, false, nil
	}
}

// userCountRule builds a rule earned at a threshold over one user aggregate.
func userCountRule(threshold int, read func(AggregateReader, context.Context, int64) (int, error)) UserRuleFunc {
	return func(ctx context.Context, userID int64, agg AggregateReader) (*int, bool, error) {
		count, err := read(agg, ctx, userID)
		if err != nil {
			return nil, false, err
		}
		if count >= threshold {
			return metric(count), true, nil
		}
		return nil, false, nil
	}
}
