// file: internal/services/comment_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"civicfund/internal/models"
)

type fakeCommentRepo struct {
	comments map[int64]*models.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]*models.Comment)}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	f.nextID++
	comment.ID = f.nextID
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	return f.comments[id], nil
}

func (f *fakeCommentRepo) Update(ctx context.Context, comment *models.Comment) error {
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id int64) error {
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) GetByProjectID(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Comment], error) {
	var out []*models.Comment
	for _, c := range f.comments {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return &models.PaginatedResponse[*models.Comment]{Data: out, Total: len(out)}, nil
}

func (f *fakeCommentRepo) GetByTimelineItemID(ctx context.Context, timelineItemID int64) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range f.comments {
		if c.TimelineItemID != nil && *c.TimelineItemID == timelineItemID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) CountByProject(ctx context.Context, projectID int64) (int, error) {
	count := 0
	for _, c := range f.comments {
		if c.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

func (f *fakeCommentRepo) CountDistinctProjectsByUser(ctx context.Context, userID int64) (int, error) {
	seen := make(map[int64]struct{})
	for _, c := range f.comments {
		if c.UserID == userID {
			seen[c.ProjectID] = struct{}{}
		}
	}
	return len(seen), nil
}

type fakeTimelineRepo struct {
	items  map[int64]*models.TimelineItem
	nextID int64
}

func newFakeTimelineRepo() *fakeTimelineRepo {
	return &fakeTimelineRepo{items: make(map[int64]*models.TimelineItem)}
}

func (f *fakeTimelineRepo) Create(ctx context.Context, item *models.TimelineItem) error {
	f.nextID++
	item.ID = f.nextID
	item.OrderIndex = len(f.items)
	f.items[item.ID] = item
	return nil
}

func (f *fakeTimelineRepo) GetByID(ctx context.Context, id int64) (*models.TimelineItem, error) {
	return f.items[id], nil
}

func (f *fakeTimelineRepo) Update(ctx context.Context, item *models.TimelineItem) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeTimelineRepo) Delete(ctx context.Context, id int64) error {
	delete(f.items, id)
	return nil
}

func (f *fakeTimelineRepo) GetByProjectID(ctx context.Context, projectID int64) ([]*models.TimelineItem, error) {
	var out []*models.TimelineItem
	for _, item := range f.items {
		if item.ProjectID == projectID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeTimelineRepo) Reorder(ctx context.Context, projectID int64, orderedIDs []int64) error {
	for idx, id := range orderedIDs {
		if item, ok := f.items[id]; ok && item.ProjectID == projectID {
			item.OrderIndex = idx
		}
	}
	return nil
}

func newCommentFixture(t *testing.T) (CommentService, *fakeProjectRepo, *fakeTimelineRepo, *stubBadgeService) {
	t.Helper()
	comments := newFakeCommentRepo()
	projects := newFakeProjectRepo()
	timeline := newFakeTimelineRepo()
	badges := &stubBadgeService{}
	svc := NewCommentService(comments, projects, timeline, badges, nil, zap.NewNop())
	return svc, projects, timeline, badges
}

func TestCreateComment_RunsHook(t *testing.T) {
	svc, projects, _, badges := newCommentFixture(t)
	ctx := context.Background()
	project := projects.add(&models.Project{UserID: 1, Title: "Mural", Category: "arts"})

	comment, err := svc.Create(ctx, &CreateCommentRequest{UserID: 7, ProjectID: project.ID, Content: "Love this"})
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
	assert.Equal(t, 1, badges.afterComment)
}

func TestCreateComment_TimelineItemMustBelongToProject(t *testing.T) {
	svc, projects, timeline, badges := newCommentFixture(t)
	ctx := context.Background()
	project := projects.add(&models.Project{UserID: 1, Title: "Mural", Category: "arts"})
	other := projects.add(&models.Project{UserID: 1, Title: "Bench", Category: "parks"})

	item := &models.TimelineItem{ProjectID: other.ID, UserID: 1, Title: "Sketches", MilestoneType: models.MilestonePlanning}
	require.NoError(t, timeline.Create(ctx, item))

	_, err := svc.Create(ctx, &CreateCommentRequest{
		UserID:         7,
		ProjectID:      project.ID,
		TimelineItemID: &item.ID,
		Content:        "Wrong thread",
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Zero(t, badges.afterComment)
}

func TestUpdateComment_OnlyAuthor(t *testing.T) {
	svc, projects, _, _ := newCommentFixture(t)
	ctx := context.Background()
	project := projects.add(&models.Project{UserID: 1, Title: "Mural", Category: "arts"})

	comment, err := svc.Create(ctx, &CreateCommentRequest{UserID: 7, ProjectID: project.ID, Content: "First draft"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, &UpdateCommentRequest{CommentID: comment.ID, UserID: 8, Content: "Hijack"})
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "FORBIDDEN", svcErr.Type)

	updated, err := svc.Update(ctx, &UpdateCommentRequest{CommentID: comment.ID, UserID: 7, Content: "Second draft"})
	require.NoError(t, err)
	assert.Equal(t, "Second draft", updated.Content)
}

func TestDeleteComment_OnlyAuthor(t *testing.T) {
	svc, projects, _, _ := newCommentFixture(t)
	ctx := context.Background()
	project := projects.add(&models.Project{UserID: 1, Title: "Mural", Category: "arts"})

	comment, err := svc.Create(ctx, &CreateCommentRequest{UserID: 7, ProjectID: project.ID, Content: "Temp"})
	require.NoError(t, err)

	require.Error(t, svc.Delete(ctx, comment.ID, 8))
	require.NoError(t, svc.Delete(ctx, comment.ID, 7))
	require.Error(t, svc.Delete(ctx, comment.ID, 7))
}
