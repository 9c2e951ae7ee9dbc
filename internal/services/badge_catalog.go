// file: internal/services/badge_catalog.go
package services

import "civicfund/internal/models"

// DefaultCatalog returns the built-in badge definitions. Seeding upserts on
// (category, badge_type), so re-running it refreshes names, descriptions and
// criteria without touching earned awards.
func DefaultCatalog() []*models.Badge {
	return []*models.Badge{
		// ===============================
		// PROJECT BADGES
		// ===============================
		{
			Name:          "Rising Star",
			Description:   "Received 10 votes within 24 hours of creation",
			Category:      models.BadgeCategoryProject,
			BadgeType:     models.BadgeTypeRisingStar,
			Icon:          "🌟",
			Color:         "#FFD700",
			IsActive:      true,
			CriteriaValue: metric(risingStarVotes),
		},
		{
			Name:          "Community Favorite",
			Description:   "Reached 50 votes",
			Category:      models.BadgeCategoryProject,
			BadgeType:     models.BadgeTypeCommunityFavorite,
			Icon:          "❤️",
			Color:         "#FF6B6B",
			IsActive:      true,
			CriteriaValue: metric(favoriteVotes),
		},
		{
			Name:          "People's Choice",
			Description:   "Reached 100 votes",
			Category:      models.BadgeCategoryProject,
			BadgeType:     models.BadgeTypePeoplesChoice,
			Icon:          "🏆",
			Color:         "#4ECDC4",
			IsActive:      true,
			CriteriaValue: metric(peoplesChoiceVotes),
		},
		{
			Name:        "Fully Funded",
			Description: "Donations reached the project budget",
			Category:    models.BadgeCategoryProject,
			BadgeType:   models.BadgeTypeFullyFunded,
			Icon:        "💰",
			Color:       "#95E77E",
			IsActive:    true,
		},
		{
			Name:        "Overfunded",
			Description: "Donations reached 150% of the project budget",
			Category:    models.BadgeCategoryProject,
			BadgeType:   models.BadgeTypeOverfunded,
			Icon:        "🚀",
			Color:       "#A8E6CF",
			IsActive:    true,
		},
		{
			Name:          "Active Discussion",
			Description:   "Gathered 25 comments across its timeline",
			Category:      models.BadgeCategoryProject,
			BadgeType:     models.BadgeTypeActiveDiscussion,
			Icon:          "💬",
			Color:         "#C7CEEA",
			IsActive:      true,
			CriteriaValue: metric(discussionComments),
		},
		{
			Name:          "Trending",
			Description:   "Received 20 votes in the last 7 days",
			Category:      models.BadgeCategoryProject,
			BadgeType:     models.BadgeTypeTrending,
			Icon:          "🔥",
			Color:         "#FFA07A",
			IsActive:      true,
			CriteriaValue: metric(trendingVotes),
		},

		// ===============================
		// USER BADGES
		// ===============================
		{
			Name:        "Newcomer",
			Description: "Joined the community",
			Category:    models.BadgeCategoryUser,
			BadgeType:   models.BadgeTypeNewcomer,
			Icon:        "👋",
			Color:       "#B4A7D6",
			IsActive:    true,
		},
		{
			Name:          "Project Creator",
			Description:   "Created a first project",
			Category:      models.BadgeCategoryUser,
			BadgeType:     models.BadgeTypeProjectCreator,
			Icon:          "🛠️",
			Color:         "#87CEEB",
			IsActive:      true,
			CriteriaValue: metric(creatorProjects),
		},
		{
			Name:          "Prolific Creator",
			Description:   "Created 5 projects",
			Category:      models.BadgeCategoryUser,
			BadgeType:     models.BadgeTypeProlificCreator,
			Icon:          "⚒️",
			Color:         "#6FA8DC",
			IsActive:      true,
			CriteriaValue: metric(prolificProjects),
		},
		{
			Name:          "Master Builder",
			Description:   "Created 10 projects",
			Category:      models.BadgeCategoryUser,
			BadgeType:     models.BadgeTypeMasterBuilder,
			Icon:          "🏗️",
			Color:         "#3D85C6",
			IsActive:      true,
			CriteriaValue: metric(masterProjects),
		},
		{
			Name:          "Supporter",
			Description:   "Voted on 10 different projects",
			Category:      models.BadgeCategoryUser,
			BadgeType:     models.BadgeTypeSupporter,
			Icon:          "🤝",
			Color:         "#FFE599",
			IsActive:      true,
			CriteriaValue: metric(supporterProjects),
		},
		{
			Name:          "Champion",
			Description:   "Voted on 50 different projects",
			Category:      models.BadgeCategoryUser,
			BadgeType:     models.BadgeTypeChampion,
			Icon:          "🥇",
			Color:         "#F6B26B",
			IsActive:      true,
			CriteriaValue: metric(championProjects),
		},
		{
			Name:          "Contributor",
			Description:   "Donated to a first project",
			Category:      models.BadgeCategoryUser,
			BadgeType:     models.BadgeTypeContributor,
			Icon:          "🎁",
			Color:         "#D5A6BD",
			IsActive:      true,
			CriteriaValue: metric(contributorProjects),
		},
		{
			Name:          "Patron",
			Description:   "Donated to 10 different projects",
			Category:      models.BadgeCategoryUser,
			BadgeType:     models.BadgeTypePatron,
			Icon:          "💎",
			Color:         "#A64D79",
			IsActive:      true,
			CriteriaValue: metric(patronProjects),
		},
		{
			Name:          "Benefactor",
			Description:   "Donated 1000 in total",
			Category:      models.BadgeCategoryUser,
			BadgeType:     models.BadgeTypeBenefactor,
			Icon:          "🏦",
			Color:         "#8E7CC3",
			IsActive:      true,
			CriteriaValue: metric(benefactorTotal),
		},
		{
			Name:          "Engaged Citizen",
			Description:   "Commented on 20 different projects",
			Category:      models.BadgeCategoryUser,
			BadgeType:     models.BadgeTypeEngagedCitizen,
			Icon:          "🗣️",
			Color:         "#76A5AF",
			IsActive:      true,
			CriteriaValue: metric(engagedProjects),
		},
		{
			Name:              "Community Leader",
			Description:       "Created 5 projects, voted on 50 and donated at least once",
			Category:          models.BadgeCategoryUser,
			BadgeType:         models.BadgeTypeCommunityLeader,
			Icon:              "👑",
			Color:             "#E69138",
			IsActive:          true,
			CriteriaProjects:  metric(leaderProjects),
			CriteriaVotes:     metric(leaderVotes),
			CriteriaDonations: metric(leaderDonations),
		},
	}
}
