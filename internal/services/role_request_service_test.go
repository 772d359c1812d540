package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"circuithub_backend/internal/models"
	"circuithub_backend/internal/repositories"
	"circuithub_backend/internal/services/dto"
	"circuithub_backend/pkg/apperrors"
)

type roleRequestFixture struct {
	service       RoleRequestService
	requests      *fakeRoleRequestRepo
	profiles      *fakeProfileRepo
	notifications *fakeNotificationRepo
	users         *fakeUserRepo
	tx            *fakeTxManager
	publisher     *fakePublisher
	email         *fakeEmailProvider
}

func newRoleRequestFixture() *roleRequestFixture {
	f := &roleRequestFixture{
		requests:      newFakeRoleRequestRepo(),
		profiles:      newFakeProfileRepo(),
		notifications: newFakeNotificationRepo(),
		users:         newFakeUserRepo(),
		tx:            &fakeTxManager{},
		publisher:     &fakePublisher{},
		email:         &fakeEmailProvider{},
	}
	f.service = NewRoleRequestService(
		f.requests, f.profiles, f.notifications, f.users, f.tx, f.publisher, f.email)
	return f
}

func (f *roleRequestFixture) submitPending(t *testing.T, userID, role string) *dto.RoleRequestResponse {
	t.Helper()
	f.profiles.add(userID, models.RoleMember)
	f.users.add(userID, userID+"@club.edu")
	resp, err := f.service.Submit(userID, &dto.SubmitRoleRequestRequest{Role: role, Reason: "been here two years"})
	require.NoError(t, err)
	return resp
}

func TestSubmit_CreatesPendingRequest(t *testing.T) {
	f := newRoleRequestFixture()

	resp := f.submitPending(t, "u1", "alumni")

	assert.Equal(t, models.RoleRequestStatusPending, resp.Status)
	assert.Equal(t, models.RoleAlumni, resp.RequestedRole)
	assert.Equal(t, "u1", resp.UserID)
	assert.Nil(t, resp.ReviewedBy)

	// Submission writes a confirmation notification and pushes it.
	notifs := f.notifications.forUser("u1")
	require.Len(t, notifs, 1)
	assert.Equal(t, repositories.NotificationTypeRoleRequestSubmitted, notifs[0].Type)
	assert.Equal(t, 1, f.publisher.count())
}

func TestSubmit_InvalidRole(t *testing.T) {
	f := newRoleRequestFixture()
	f.profiles.add("u1", models.RoleMember)

	for _, role := range []string{"admin", "president", "", "Member"} {
		_, err := f.service.Submit("u1", &dto.SubmitRoleRequestRequest{Role: role})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRequestedRole, "role %q must be rejected", role)
	}
}

func TestSubmit_DuplicatePendingRejected(t *testing.T) {
	f := newRoleRequestFixture()
	f.submitPending(t, "u1", "alumni")

	_, err := f.service.Submit("u1", &dto.SubmitRoleRequestRequest{Role: "alumni"})
	assert.ErrorIs(t, err, apperrors.ErrPendingRequestExists)

	// Same answer even for a different requested role.
	_, err = f.service.Submit("u1", &dto.SubmitRoleRequestRequest{Role: "member"})
	assert.ErrorIs(t, err, apperrors.ErrPendingRequestExists)
}

func TestSubmit_InsertRaceSurfacesAsPendingExists(t *testing.T) {
	f := newRoleRequestFixture()
	f.profiles.add("u1", models.RoleMember)
	f.users.add("u1", "u1@club.edu")

	// A competing request slips in between the duplicate check and the
	// insert. The fake's uniqueness check plays the partial index.
	_ = f.requests.Create(&models.RoleRequest{
		UserID: "u1", RequestedRole: models.RoleAlumni, Status: models.RoleRequestStatusPending,
	})

	_, err := f.service.Submit("u1", &dto.SubmitRoleRequestRequest{Role: "alumni"})
	assert.ErrorIs(t, err, apperrors.ErrPendingRequestExists)
}

func TestApprove_SetsRoleStatusAndNotification(t *testing.T) {
	f := newRoleRequestFixture()
	f.profiles.add("admin1", models.RoleAdmin)
	resp := f.submitPending(t, "u1", "alumni")

	approved, err := f.service.Approve("admin1", resp.ID)
	require.NoError(t, err)

	assert.Equal(t, models.RoleRequestStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, "admin1", *approved.ReviewedBy)
	assert.NotNil(t, approved.ReviewedAt)

	// The member's profile role changed.
	profile, err := f.profiles.FindByID("u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAlumni, profile.Role)

	// Exactly one approval notification, with the documented wording.
	var approvals []string
	for _, n := range f.notifications.forUser("u1") {
		if n.Type == repositories.NotificationTypeRoleRequestApproved {
			approvals = append(approvals, n.Message)
		}
	}
	require.Len(t, approvals, 1)
	assert.Equal(t, "Your request to become a alumni has been approved.", approvals[0])

	assert.Equal(t, 1, f.tx.calls)

	assert.Eventually(t, func() bool { return f.email.sentCount() == 1 }, time.Second, 10*time.Millisecond)
	sent := f.email.lastSent()
	assert.Equal(t, "u1@club.edu", sent.To)
	assert.True(t, sent.Approved)
}

func TestApprove_NonAdminDeniedWithoutMutation(t *testing.T) {
	f := newRoleRequestFixture()
	f.profiles.add("mallory", models.RoleMember)
	resp := f.submitPending(t, "u1", "alumni")

	_, err := f.service.Approve("mallory", resp.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// Nothing moved.
	request, err := f.requests.FindByID(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleRequestStatusPending, request.Status)
	profile, _ := f.profiles.FindByID("u1")
	assert.Equal(t, models.RoleMember, profile.Role)
	assert.Equal(t, 0, f.tx.calls)
}

func TestApprove_RoleReadFromProfileNotClaim(t *testing.T) {
	f := newRoleRequestFixture()
	resp := f.submitPending(t, "u1", "alumni")

	// Actor whose profile row does not exist at all: whatever their token
	// claims, the decision is denied.
	_, err := f.service.Approve("ghost", resp.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestApprove_AlreadyReviewedRejected(t *testing.T) {
	f := newRoleRequestFixture()
	f.profiles.add("admin1", models.RoleAdmin)
	resp := f.submitPending(t, "u1", "alumni")

	_, err := f.service.Approve("admin1", resp.ID)
	require.NoError(t, err)

	_, err = f.service.Approve("admin1", resp.ID)
	assert.ErrorIs(t, err, apperrors.ErrRequestNotPending)

	_, err = f.service.Reject("admin1", resp.ID, &dto.ReviewRoleRequestRequest{})
	assert.ErrorIs(t, err, apperrors.ErrRequestNotPending)
}

func TestApprove_MissingRequest(t *testing.T) {
	f := newRoleRequestFixture()
	f.profiles.add("admin1", models.RoleAdmin)

	_, err := f.service.Approve("admin1", "req-nope")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestReject_NeverTouchesRole(t *testing.T) {
	f := newRoleRequestFixture()
	f.profiles.add("admin1", models.RoleAdmin)
	resp := f.submitPending(t, "u1", "alumni")

	rejected, err := f.service.Reject("admin1", resp.ID, &dto.ReviewRoleRequestRequest{Notes: "need a graduation record"})
	require.NoError(t, err)

	assert.Equal(t, models.RoleRequestStatusRejected, rejected.Status)
	assert.Equal(t, "need a graduation record", rejected.AdminNotes)

	profile, _ := f.profiles.FindByID("u1")
	assert.Equal(t, models.RoleMember, profile.Role)

	var messages []string
	for _, n := range f.notifications.forUser("u1") {
		if n.Type == repositories.NotificationTypeRoleRequestRejected {
			messages = append(messages, n.Message)
		}
	}
	require.Len(t, messages, 1)
	assert.Equal(t, "Your request to become a alumni has been rejected. Reason: need a graduation record", messages[0])
}

func TestReject_EmptyNotesFallbackOnlyInMessage(t *testing.T) {
	f := newRoleRequestFixture()
	f.profiles.add("admin1", models.RoleAdmin)
	resp := f.submitPending(t, "u1", "alumni")

	rejected, err := f.service.Reject("admin1", resp.ID, &dto.ReviewRoleRequestRequest{})
	require.NoError(t, err)

	// Stored as given (empty); the fallback wording lives only in the
	// notification.
	assert.Equal(t, "", rejected.AdminNotes)
	stored, _ := f.requests.FindByID(resp.ID)
	assert.Equal(t, "", stored.AdminNotes)

	var message string
	for _, n := range f.notifications.forUser("u1") {
		if n.Type == repositories.NotificationTypeRoleRequestRejected {
			message = n.Message
		}
	}
	assert.Contains(t, message, "Reason: No reason provided")
}

func TestSubmitAfterRejection_Allowed(t *testing.T) {
	f := newRoleRequestFixture()
	f.profiles.add("admin1", models.RoleAdmin)
	resp := f.submitPending(t, "u1", "alumni")

	_, err := f.service.Reject("admin1", resp.ID, &dto.ReviewRoleRequestRequest{Notes: "too early"})
	require.NoError(t, err)

	// Terminal state frees the slot for a new request.
	again, err := f.service.Submit("u1", &dto.SubmitRoleRequestRequest{Role: "alumni"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleRequestStatusPending, again.Status)
	assert.NotEqual(t, resp.ID, again.ID)
}

func TestListMine_ReturnsOwnRequestsOnly(t *testing.T) {
	f := newRoleRequestFixture()
	f.submitPending(t, "u1", "alumni")
	f.submitPending(t, "u2", "alumni")

	mine, err := f.service.ListMine("u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "u1", mine[0].UserID)
}

func TestListAll_AdminOnlyWithStatusFilter(t *testing.T) {
	f := newRoleRequestFixture()
	f.profiles.add("admin1", models.RoleAdmin)
	first := f.submitPending(t, "u1", "alumni")
	f.submitPending(t, "u2", "alumni")

	_, err := f.service.Approve("admin1", first.ID)
	require.NoError(t, err)

	_, err = f.service.ListAll("u1", repositories.RoleRequestFilter{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	pending, err := f.service.ListAll("admin1", repositories.RoleRequestFilter{Status: models.RoleRequestStatusPending})
	require.NoError(t, err)
	require.Len(t, pending.Requests, 1)
	assert.Equal(t, "u2", pending.Requests[0].UserID)

	all, err := f.service.ListAll("admin1", repositories.RoleRequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
}

// The workflow as a member sees it, end to end.
func TestRoleRequestWorkflow_MemberToAlumni(t *testing.T) {
	f := newRoleRequestFixture()
	f.profiles.add("admin1", models.RoleAdmin)

	resp := f.submitPending(t, "casey", "alumni")

	// Duplicate submission while pending is refused.
	_, err := f.service.Submit("casey", &dto.SubmitRoleRequestRequest{Role: "alumni"})
	assert.ErrorIs(t, err, apperrors.ErrPendingRequestExists)

	// Admin approves; the member is now an alumni and was told so.
	_, err = f.service.Approve("admin1", resp.ID)
	require.NoError(t, err)

	profile, _ := f.profiles.FindByID("casey")
	assert.Equal(t, models.RoleAlumni, profile.Role)

	notifs := f.notifications.forUser("casey")
	require.Len(t, notifs, 2) // submitted + approved
}
