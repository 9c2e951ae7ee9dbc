// file: internal/services/donation_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"civicfund/internal/models"
)

// fakeDonationRepo backs the donation service tests with a slice.
type fakeDonationRepo struct {
	donations []*models.Donation
	nextID    int64
}

func (f *fakeDonationRepo) Create(ctx context.Context, donation *models.Donation) error {
	f.nextID++
	donation.ID = f.nextID
	f.donations = append(f.donations, donation)
	return nil
}

func (f *fakeDonationRepo) GetByProjectID(ctx context.Context, projectID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Donation], error) {
	var out []*models.Donation
	for _, d := range f.donations {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return &models.PaginatedResponse[*models.Donation]{Data: out, Total: len(out)}, nil
}

func (f *fakeDonationRepo) GetByUserID(ctx context.Context, userID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Donation], error) {
	var out []*models.Donation
	for _, d := range f.donations {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return &models.PaginatedResponse[*models.Donation]{Data: out, Total: len(out)}, nil
}

func (f *fakeDonationRepo) SumByProject(ctx context.Context, projectID int64) (float64, error) {
	_, total, _, _ := f.stats(projectID)
	return total, nil
}

func (f *fakeDonationRepo) SumByUser(ctx context.Context, userID int64) (float64, error) {
	var total float64
	for _, d := range f.donations {
		if d.UserID == userID {
			total += d.Amount
		}
	}
	return total, nil
}

func (f *fakeDonationRepo) CountDistinctProjectsByUser(ctx context.Context, userID int64) (int, error) {
	seen := make(map[int64]struct{})
	for _, d := range f.donations {
		if d.UserID == userID {
			seen[d.ProjectID] = struct{}{}
		}
	}
	return len(seen), nil
}

func (f *fakeDonationRepo) StatsByProject(ctx context.Context, projectID int64) (int, float64, float64, error) {
	count, total, largest, _ := f.stats(projectID)
	return count, total, largest, nil
}

func (f *fakeDonationRepo) stats(projectID int64) (int, float64, float64, error) {
	var (
		count          int
		total, largest float64
	)
	for _, d := range f.donations {
		if d.ProjectID != projectID {
			continue
		}
		count++
		total += d.Amount
		if d.Amount > largest {
			largest = d.Amount
		}
	}
	return count, total, largest, nil
}

func newDonationFixture(t *testing.T) (DonationService, *fakeDonationRepo, *fakeProjectRepo, *stubBadgeService) {
	t.Helper()
	donations := &fakeDonationRepo{}
	projects := newFakeProjectRepo()
	badges := &stubBadgeService{}
	svc := NewDonationService(donations, projects, badges, nil, zap.NewNop())
	return svc, donations, projects, badges
}

func TestDonate_RecordsFundingAndRunsHook(t *testing.T) {
	svc, _, projects, badges := newDonationFixture(t)
	ctx := context.Background()
	project := projects.add(&models.Project{UserID: 1, Title: "Playground", Category: "youth", Budget: 500})

	donation, err := svc.Donate(ctx, &CreateDonationRequest{UserID: 7, ProjectID: project.ID, Amount: 120})
	require.NoError(t, err)
	assert.NotZero(t, donation.ID)
	assert.Equal(t, defaultCurrency, donation.Currency)
	assert.Equal(t, 120.0, project.CurrentFunding)
	assert.Equal(t, 1, badges.afterDonation)
}

func TestDonate_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, projects, badges := newDonationFixture(t)
	project := projects.add(&models.Project{UserID: 1, Title: "Playground", Category: "youth"})

	for _, amount := range []float64{0, -5} {
		_, err := svc.Donate(context.Background(), &CreateDonationRequest{UserID: 7, ProjectID: project.ID, Amount: amount})
		require.Error(t, err)
	}
	assert.Zero(t, badges.afterDonation)
}

func TestDonate_MissingProject(t *testing.T) {
	svc, _, _, _ := newDonationFixture(t)

	_, err := svc.Donate(context.Background(), &CreateDonationRequest{UserID: 7, ProjectID: 9999, Amount: 50})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGetProjectStats(t *testing.T) {
	svc, _, projects, _ := newDonationFixture(t)
	ctx := context.Background()
	project := projects.add(&models.Project{UserID: 1, Title: "Playground", Category: "youth"})

	empty, err := svc.GetProjectStats(ctx, project.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.DonorCount)
	assert.Zero(t, empty.AverageAmount)

	for _, amount := range []float64{100, 50, 250} {
		_, err := svc.Donate(ctx, &CreateDonationRequest{UserID: 7, ProjectID: project.ID, Amount: amount})
		require.NoError(t, err)
	}

	stats, err := svc.GetProjectStats(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.DonorCount)
	assert.Equal(t, 400.0, stats.TotalAmount)
	assert.Equal(t, 250.0, stats.LargestAmount)
	assert.InDelta(t, 133.33, stats.AverageAmount, 0.01)
}
