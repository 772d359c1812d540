package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"circuithub_backend/internal/models"
	"circuithub_backend/internal/services/dto"
	"circuithub_backend/pkg/apperrors"
)

func newProfileFixture() (ProfileService, *fakeProfileRepo, *fakeUserRepo) {
	profiles := newFakeProfileRepo()
	users := newFakeUserRepo()
	return NewProfileService(profiles, users), profiles, users
}

func TestGetOrCreateProfile_CreatesDefaultOnFirstAccess(t *testing.T) {
	service, profiles, users := newProfileFixture()
	users.add("u1", "casey.lee@university.edu")

	resp, err := service.GetOrCreateProfile("u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", resp.ID)
	assert.Equal(t, "casey.lee", resp.Username, "username defaults to the email local-part")
	assert.Equal(t, models.RoleMember, resp.Role)

	stored, err := profiles.FindByID("u1")
	require.NoError(t, err)
	assert.Equal(t, "casey.lee", stored.Username)
}

func TestGetOrCreateProfile_Idempotent(t *testing.T) {
	service, _, users := newProfileFixture()
	users.add("u1", "casey@university.edu")

	first, err := service.GetOrCreateProfile("u1")
	require.NoError(t, err)

	second, err := service.GetOrCreateProfile("u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Username, second.Username)
}

func TestGetOrCreateProfile_NeverResetsRole(t *testing.T) {
	service, profiles, users := newProfileFixture()
	users.add("u1", "casey@university.edu")
	p := profiles.add("u1", models.RoleAlumni)
	p.Username = "casey"

	resp, err := service.GetOrCreateProfile("u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAlumni, resp.Role)
}

func TestGetOrCreateProfile_UsernameCollisionFallsBack(t *testing.T) {
	service, profiles, users := newProfileFixture()
	users.add("u1", "casey@university.edu")

	// Someone else already claimed the local-part as a username.
	other := profiles.add("u2", models.RoleMember)
	other.Username = "casey"

	resp, err := service.GetOrCreateProfile("u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.ID)
	assert.NotEqual(t, "casey", resp.Username)
	assert.Contains(t, resp.Username, "member-")
}

func TestGetOrCreateProfile_LostRaceReturnsWinner(t *testing.T) {
	service, profiles, users := newProfileFixture()
	users.add("u1", "casey@university.edu")

	// Simulate the concurrent request winning: the row exists by the time
	// our Create runs, keyed by the same user id.
	winner := profiles.add("u1", models.RoleMember)
	winner.Username = "casey"

	resp, err := service.GetOrCreateProfile("u1")
	require.NoError(t, err)
	assert.Equal(t, "casey", resp.Username)
}

func TestGetOrCreateProfile_UnknownUser(t *testing.T) {
	service, _, _ := newProfileFixture()

	_, err := service.GetOrCreateProfile("nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestUpdateProfile_NeverChangesRole(t *testing.T) {
	service, profiles, users := newProfileFixture()
	users.add("u1", "casey@university.edu")
	profiles.add("u1", models.RoleMember)

	username := "casey_makes_robots"
	fullName := "Casey Lee"
	resp, err := service.UpdateProfile("u1", &dto.UpdateProfileRequest{
		Username: &username,
		FullName: &fullName,
	})
	require.NoError(t, err)

	assert.Equal(t, "casey_makes_robots", resp.Username)
	assert.Equal(t, "Casey Lee", resp.FullName)
	assert.Equal(t, models.RoleMember, resp.Role)
}

func TestGetProfile_NotFound(t *testing.T) {
	service, _, _ := newProfileFixture()

	_, err := service.GetProfile("missing")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
