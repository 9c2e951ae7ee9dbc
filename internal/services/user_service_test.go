// file: internal/services/user_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserFixture(t *testing.T) (UserService, *fakeUserRepo, *stubBadgeService) {
	t.Helper()
	users := newFakeUserRepo()
	badges := &stubBadgeService{}
	svc := NewUserService(users, badges, nil, zap.NewNop())
	return svc, users, badges
}

func registerReq(email, username string) *RegisterUserRequest {
	return &RegisterUserRequest{
		Email:         email,
		Username:      username,
		TermsAccepted: true,
	}
}

func TestRegister_CreatesUserAndRunsHook(t *testing.T) {
	svc, _, badges := newUserFixture(t)

	user, err := svc.Register(context.Background(), registerReq("ada@example.org", "ada"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotNil(t, user.TermsAcceptedAt)
	assert.Equal(t, 1, badges.afterRegistration)
}

func TestRegister_RejectsInvalidRequest(t *testing.T) {
	svc, _, badges := newUserFixture(t)
	ctx := context.Background()

	cases := []*RegisterUserRequest{
		registerReq("not-an-email", "ada"),
		registerReq("ada@example.org", "a"),
		{Email: "ada@example.org", Username: "ada", TermsAccepted: false},
	}
	for _, req := range cases {
		_, err := svc.Register(ctx, req)
		require.Error(t, err)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "VALIDATION_ERROR", svcErr.Type)
	}
	assert.Zero(t, badges.afterRegistration)
}

func TestRegister_DuplicateEmailAndUsername(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("ada@example.org", "ada"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("ada@example.org", "lovelace"))
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	_, err = svc.Register(ctx, registerReq("ada2@example.org", "ada"))
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestRegister_BadgeHookFailureDoesNotFailRegistration(t *testing.T) {
	svc, users, badges := newUserFixture(t)
	badges.hookErr = assert.AnError

	user, err := svc.Register(context.Background(), registerReq("ada@example.org", "ada"))
	require.NoError(t, err)
	stored, _ := users.GetByID(context.Background(), user.ID)
	assert.NotNil(t, stored)
}

func TestUpdateProfile_AppliesOnlyProvidedFields(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("ada@example.org", "ada"))
	require.NoError(t, err)

	bio := "City gardener"
	updated, err := svc.UpdateProfile(ctx, &UpdateProfileRequest{UserID: user.ID, Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, bio, *updated.Bio)
	assert.Equal(t, "ada", updated.Username)
}

func TestUpdateProfile_MissingUser(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	bio := "nope"
	_, err := svc.UpdateProfile(context.Background(), &UpdateProfileRequest{UserID: 9999, Bio: &bio})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
