// file: internal/services/fakes_test.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"civicfund/internal/models"
	"civicfund/internal/repositories"
)

// ===============================
// AGGREGATE READER FAKE
// ===============================

// fakeAggregates serves rule evaluation from plain maps. Vote timestamps
// are kept so windowed rules see the same data as total counts.
type fakeAggregates struct {
	voteTimes      map[int64][]time.Time
	donationTotals map[int64]float64
	commentCounts  map[int64]int

	userProjects  map[int64]int
	userVoted     map[int64]int
	userDonated   map[int64]int
	userDonations map[int64]float64
	userCommented map[int64]int

	// failUsers makes user-scoped reads fail for specific users.
	failUsers map[int64]error
}

func newFakeAggregates() *fakeAggregates {
	return &fakeAggregates{
		voteTimes:      make(map[int64][]time.Time),
		donationTotals: make(map[int64]float64),
		commentCounts:  make(map[int64]int),
		userProjects:   make(map[int64]int),
		userVoted:      make(map[int64]int),
		userDonated:    make(map[int64]int),
		userDonations:  make(map[int64]float64),
		userCommented:  make(map[int64]int),
		failUsers:      make(map[int64]error),
	}
}

func (f *fakeAggregates) addVotes(projectID int64, at time.Time, n int) {
	for i := 0; i < n; i++ {
		f.voteTimes[projectID] = append(f.voteTimes[projectID], at)
	}
}

func (f *fakeAggregates) ProjectVoteCount(ctx context.Context, projectID int64) (int, error) {
	return len(f.voteTimes[projectID]), nil
}

func (f *fakeAggregates) ProjectVoteCountBetween(ctx context.Context, projectID int64, from, to time.Time) (int, error) {
	count := 0
	for _, at := range f.voteTimes[projectID] {
		if !at.Before(from) && !at.After(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAggregates) ProjectDonationTotal(ctx context.Context, projectID int64) (float64, error) {
	return f.donationTotals[projectID], nil
}

func (f *fakeAggregates) ProjectCommentCount(ctx context.Context, projectID int64) (int, error) {
	return f.commentCounts[projectID], nil
}

func (f *fakeAggregates) UserProjectCount(ctx context.Context, userID int64) (int, error) {
	if err := f.failUsers[userID]; err != nil {
		return 0, err
	}
	return f.userProjects[userID], nil
}

func (f *fakeAggregates) UserVotedProjectCount(ctx context.Context, userID int64) (int, error) {
	if err := f.failUsers[userID]; err != nil {
		return 0, err
	}
	return f.userVoted[userID], nil
}

func (f *fakeAggregates) UserDonatedProjectCount(ctx context.Context, userID int64) (int, error) {
	if err := f.failUsers[userID]; err != nil {
		return 0, err
	}
	return f.userDonated[userID], nil
}

func (f *fakeAggregates) UserDonationTotal(ctx context.Context, userID int64) (float64, error) {
	if err := f.failUsers[userID]; err != nil {
		return 0, err
	}
	return f.userDonations[userID], nil
}

func (f *fakeAggregates) UserCommentedProjectCount(ctx context.Context, userID int64) (int, error) {
	if err := f.failUsers[userID]; err != nil {
		return 0, err
	}
	return f.userCommented[userID], nil
}

// ===============================
// BADGE REPOSITORY FAKE
// ===============================

// fakeBadgeRepo keeps the catalog and both award ledgers in memory. Award
// inserts honor the same at-most-once semantics as the unique constraints.
type fakeBadgeRepo struct {
	defs          []*models.Badge
	projectAwards map[string]*models.ProjectBadge
	userAwards    map[string]*models.UserBadge
	nextID        int64
}

func newFakeBadgeRepo() *fakeBadgeRepo {
	return &fakeBadgeRepo{
		projectAwards: make(map[string]*models.ProjectBadge),
		userAwards:    make(map[string]*models.UserBadge),
	}
}

func awardKey(subjectID, badgeID int64) string {
	return fmt.Sprintf("%d:%d", subjectID, badgeID)
}

func (f *fakeBadgeRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeBadgeRepo) SeedDefinitions(ctx context.Context, definitions []*models.Badge) error {
	for _, def := range definitions {
		if existing, _ := f.GetDefinitionByType(ctx, def.Category, def.BadgeType); existing != nil {
			def.ID = existing.ID
			*existing = *def
			continue
		}
		clone := *def
		clone.ID = f.id()
		f.defs = append(f.defs, &clone)
	}
	return nil
}

func (f *fakeBadgeRepo) ListActive(ctx context.Context, category string) ([]*models.Badge, error) {
	var out []*models.Badge
	for _, def := range f.defs {
		if def.Category == category && def.IsActive {
			out = append(out, def)
		}
	}
	return out, nil
}

func (f *fakeBadgeRepo) GetDefinitionByType(ctx context.Context, category, badgeType string) (*models.Badge, error) {
	for _, def := range f.defs {
		if def.Category == category && def.BadgeType == badgeType {
			return def, nil
		}
	}
	return nil, nil
}

func (f *fakeBadgeRepo) HasProjectAward(ctx context.Context, projectID, badgeID int64) (bool, error) {
	_, ok := f.projectAwards[awardKey(projectID, badgeID)]
	return ok, nil
}

func (f *fakeBadgeRepo) HasUserAward(ctx context.Context, userID, badgeID int64) (bool, error) {
	_, ok := f.userAwards[awardKey(userID, badgeID)]
	return ok, nil
}

func (f *fakeBadgeRepo) RecordProjectAwards(ctx context.Context, awards []*models.ProjectBadge) ([]*models.ProjectBadge, error) {
	var inserted []*models.ProjectBadge
	for _, award := range awards {
		key := awardKey(award.ProjectID, award.BadgeID)
		if _, ok := f.projectAwards[key]; ok {
			continue
		}
		award.ID = f.id()
		f.projectAwards[key] = award
		inserted = append(inserted, award)
	}
	return inserted, nil
}

func (f *fakeBadgeRepo) RecordUserAwards(ctx context.Context, awards []*models.UserBadge) ([]*models.UserBadge, error) {
	var inserted []*models.UserBadge
	for _, award := range awards {
		key := awardKey(award.UserID, award.BadgeID)
		if _, ok := f.userAwards[key]; ok {
			continue
		}
		award.ID = f.id()
		f.userAwards[key] = award
		inserted = append(inserted, award)
	}
	return inserted, nil
}

func (f *fakeBadgeRepo) GetProjectAwards(ctx context.Context, projectID int64) ([]*models.ProjectBadge, error) {
	var out []*models.ProjectBadge
	for _, award := range f.projectAwards {
		if award.ProjectID == projectID {
			out = append(out, award)
		}
	}
	return out, nil
}

func (f *fakeBadgeRepo) GetUserAwards(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	var out []*models.UserBadge
	for _, award := range f.userAwards {
		if award.UserID == userID {
			out = append(out, award)
		}
	}
	return out, nil
}

func (f *fakeBadgeRepo) CountUserAwards(ctx context.Context, userID int64) (int, error) {
	awards, _ := f.GetUserAwards(ctx, userID)
	return len(awards), nil
}

func (f *fakeBadgeRepo) SetFeaturedUserBadge(ctx context.Context, userID, badgeID int64) error {
	target, ok := f.userAwards[awardKey(userID, badgeID)]
	if !ok {
		return sql.ErrNoRows
	}
	for _, award := range f.userAwards {
		if award.UserID == userID {
			award.IsFeatured = false
		}
	}
	target.IsFeatured = true
	return nil
}

// userAward returns the stored award for assertions.
func (f *fakeBadgeRepo) userAward(userID, badgeID int64) *models.UserBadge {
	return f.userAwards[awardKey(userID, badgeID)]
}

func (f *fakeBadgeRepo) userAwardByType(ctx context.Context, userID int64, badgeType string) *models.UserBadge {
	def, _ := f.GetDefinitionByType(ctx, models.BadgeCategoryUser, badgeType)
	if def == nil {
		return nil
	}
	return f.userAward(userID, def.ID)
}

func (f *fakeBadgeRepo) projectAwardByType(ctx context.Context, projectID int64, badgeType string) *models.ProjectBadge {
	def, _ := f.GetDefinitionByType(ctx, models.BadgeCategoryProject, badgeType)
	if def == nil {
		return nil
	}
	return f.projectAwards[awardKey(projectID, def.ID)]
}

// ===============================
// USER REPOSITORY FAKE
// ===============================

type fakeUserRepo struct {
	users       map[int64]*models.User
	badgeCounts map[int64]int
	nextID      int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:       make(map[int64]*models.User),
		badgeCounts: make(map[int64]int),
	}
}

func (f *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID == 0 {
		f.nextID++
		user.ID = f.nextID
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.add(user)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.User], error) {
	return &models.PaginatedResponse[*models.User]{}, nil
}

func (f *fakeUserRepo) ListIDs(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(f.users))
	for i := int64(1); i <= f.nextID; i++ {
		if _, ok := f.users[i]; ok {
			ids = append(ids, i)
		}
	}
	return ids, nil
}

func (f *fakeUserRepo) SetBadgeCount(ctx context.Context, userID int64, count int) error {
	f.badgeCounts[userID] = count
	if user, ok := f.users[userID]; ok {
		user.BadgeCount = count
	}
	return nil
}

func (f *fakeUserRepo) SetFeaturedBadge(ctx context.Context, userID, badgeID int64) error {
	if user, ok := f.users[userID]; ok {
		user.FeaturedBadgeID = &badgeID
	}
	return nil
}

// ===============================
// PROJECT REPOSITORY FAKE
// ===============================

type fakeProjectRepo struct {
	projects   map[int64]*models.Project
	voteCounts map[int64]int
	nextID     int64
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects:   make(map[int64]*models.Project),
		voteCounts: make(map[int64]int),
	}
}

func (f *fakeProjectRepo) add(project *models.Project) *models.Project {
	if project.ID == 0 {
		f.nextID++
		project.ID = f.nextID
	}
	f.projects[project.ID] = project
	return project
}

func (f *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	f.add(project)
	return nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	return f.projects[id], nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, project *models.Project) error {
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id int64) error {
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepo) List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error) {
	return &models.PaginatedResponse[*models.Project]{}, nil
}

func (f *fakeProjectRepo) GetByUserID(ctx context.Context, userID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Project], error) {
	return &models.PaginatedResponse[*models.Project]{}, nil
}

func (f *fakeProjectRepo) ListIDs(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(f.projects))
	for i := int64(1); i <= f.nextID; i++ {
		if _, ok := f.projects[i]; ok {
			ids = append(ids, i)
		}
	}
	return ids, nil
}

func (f *fakeProjectRepo) AddFunding(ctx context.Context, projectID int64, amount float64) error {
	if project, ok := f.projects[projectID]; ok {
		project.CurrentFunding += amount
	}
	return nil
}

func (f *fakeProjectRepo) SetVoteCount(ctx context.Context, projectID int64, count int) error {
	f.voteCounts[projectID] = count
	if project, ok := f.projects[projectID]; ok {
		project.VoteCount = count
	}
	return nil
}

func (f *fakeProjectRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	count := 0
	for _, project := range f.projects {
		if project.UserID == userID {
			count++
		}
	}
	return count, nil
}

// ===============================
// VOTE REPOSITORY FAKE
// ===============================

type fakeVoteRepo struct {
	votes map[string]*models.Vote
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: make(map[string]*models.Vote)}
}

func voteKey(userID, projectID int64) string {
	return fmt.Sprintf("%d:%d", userID, projectID)
}

func (f *fakeVoteRepo) Create(ctx context.Context, vote *models.Vote) error {
	key := voteKey(vote.UserID, vote.ProjectID)
	if _, ok := f.votes[key]; ok {
		return repositories.ErrDuplicateVote
	}
	vote.CreatedAt = time.Now()
	f.votes[key] = vote
	return nil
}

func (f *fakeVoteRepo) Delete(ctx context.Context, userID, projectID int64) error {
	delete(f.votes, voteKey(userID, projectID))
	return nil
}

func (f *fakeVoteRepo) Exists(ctx context.Context, userID, projectID int64) (bool, error) {
	_, ok := f.votes[voteKey(userID, projectID)]
	return ok, nil
}

func (f *fakeVoteRepo) CountByProject(ctx context.Context, projectID int64) (int, error) {
	count := 0
	for _, vote := range f.votes {
		if vote.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

func (f *fakeVoteRepo) CountByProjectBetween(ctx context.Context, projectID int64, from, to time.Time) (int, error) {
	count := 0
	for _, vote := range f.votes {
		if vote.ProjectID == projectID && !vote.CreatedAt.Before(from) && !vote.CreatedAt.After(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeVoteRepo) CountDistinctProjectsByUser(ctx context.Context, userID int64) (int, error) {
	seen := make(map[int64]struct{})
	for _, vote := range f.votes {
		if vote.UserID == userID {
			seen[vote.ProjectID] = struct{}{}
		}
	}
	return len(seen), nil
}

// ===============================
// BADGE SERVICE STUB
// ===============================

// stubBadgeService records hook invocations for services that only need to
// verify the dispatcher contract.
type stubBadgeService struct {
	BadgeService
	afterVote            int
	afterDonation        int
	afterComment         int
	afterProjectCreation int
	afterRegistration    int
	hookErr              error
}

func (s *stubBadgeService) AfterVote(ctx context.Context, projectID, userID int64) (*AwardResult, error) {
	s.afterVote++
	return &AwardResult{}, s.hookErr
}

func (s *stubBadgeService) AfterDonation(ctx context.Context, projectID, userID int64) (*AwardResult, error) {
	s.afterDonation++
	return &AwardResult{}, s.hookErr
}

func (s *stubBadgeService) AfterComment(ctx context.Context, projectID, userID int64) (*AwardResult, error) {
	s.afterComment++
	return &AwardResult{}, s.hookErr
}

func (s *stubBadgeService) AfterProjectCreation(ctx context.Context, projectID, userID int64) (*AwardResult, error) {
	s.afterProjectCreation++
	return &AwardResult{}, s.hookErr
}

func (s *stubBadgeService) AfterRegistration(ctx context.Context, userID int64) (*AwardResult, error) {
	s.afterRegistration++
	return &AwardResult{}, s.hookErr
}
