package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"circuithub_backend/internal/models"
	"circuithub_backend/internal/services/dto"
	"circuithub_backend/pkg/apperrors"
)

func newNotificationFixture() (NotificationService, *fakeNotificationRepo, *fakeProfileRepo, *fakePublisher) {
	notifications := newFakeNotificationRepo()
	profiles := newFakeProfileRepo()
	publisher := &fakePublisher{}
	return NewNotificationService(notifications, profiles, publisher), notifications, profiles, publisher
}

func seedNotifications(t *testing.T, repo *fakeNotificationRepo, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := repo.Create(&models.Notification{
			UserID:  userID,
			Type:    "test",
			Title:   fmt.Sprintf("title %d", i),
			Message: fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
	}
}

func TestGetUserNotifications_DefaultPageSizeIsTen(t *testing.T) {
	service, repo, _, _ := newNotificationFixture()
	seedNotifications(t, repo, "u1", 13)

	resp, err := service.GetUserNotifications("u1", dto.NotificationCriteria{})
	require.NoError(t, err)

	assert.Len(t, resp.Notifications, 10)
	assert.Equal(t, int64(13), resp.Total)
	assert.Equal(t, int64(13), resp.UnreadCount)
	assert.Equal(t, 2, resp.TotalPages)

	second, err := service.GetUserNotifications("u1", dto.NotificationCriteria{Page: 2})
	require.NoError(t, err)
	assert.Len(t, second.Notifications, 3)
}

func TestGetUserNotifications_ScopedToOwner(t *testing.T) {
	service, repo, _, _ := newNotificationFixture()
	seedNotifications(t, repo, "u1", 2)
	seedNotifications(t, repo, "u2", 5)

	resp, err := service.GetUserNotifications("u1", dto.NotificationCriteria{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	for _, n := range resp.Notifications {
		assert.Equal(t, "u1", n.UserID)
	}
}

func TestMarkAsRead_ForeignNotificationLooksMissing(t *testing.T) {
	service, repo, _, _ := newNotificationFixture()
	seedNotifications(t, repo, "owner", 1)
	id := repo.forUser("owner")[0].ID

	err := service.MarkAsRead("intruder", id)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)

	// And the row is untouched.
	assert.False(t, repo.forUser("owner")[0].IsRead)
}

func TestMarkAsRead_SetsReadAt(t *testing.T) {
	service, repo, _, _ := newNotificationFixture()
	seedNotifications(t, repo, "u1", 1)
	id := repo.forUser("u1")[0].ID

	require.NoError(t, service.MarkAsRead("u1", id))

	stored := repo.forUser("u1")[0]
	assert.True(t, stored.IsRead)
	assert.NotNil(t, stored.ReadAt)
}

func TestMarkAllAsRead_Idempotent(t *testing.T) {
	service, repo, _, _ := newNotificationFixture()
	seedNotifications(t, repo, "u1", 3)

	require.NoError(t, service.MarkAllAsRead("u1"))
	count, err := service.GetUnreadCount("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	firstReadAts := make([]time.Time, 0, 3)
	for _, n := range repo.forUser("u1") {
		require.NotNil(t, n.ReadAt)
		firstReadAts = append(firstReadAts, *n.ReadAt)
	}

	// Second call is a no-op: read timestamps do not move.
	require.NoError(t, service.MarkAllAsRead("u1"))
	for i, n := range repo.forUser("u1") {
		assert.Equal(t, firstReadAts[i], *n.ReadAt)
	}
}

func TestNotify_WritesAndPublishes(t *testing.T) {
	service, repo, _, publisher := newNotificationFixture()

	err := service.Notify("u1", "event_announced", "Soldering night", "Thursday 7pm, lab 2")
	require.NoError(t, err)

	require.Len(t, repo.forUser("u1"), 1)
	assert.Equal(t, 1, publisher.count())
}

func TestCleanup_AdminOnly(t *testing.T) {
	service, repo, profiles, _ := newNotificationFixture()
	profiles.add("admin1", models.RoleAdmin)
	profiles.add("u1", models.RoleMember)

	seedNotifications(t, repo, "u1", 2)
	// Make them old and read so they are eligible.
	for _, n := range repo.forUser("u1") {
		n.IsRead = true
		n.CreatedAt = time.Now().AddDate(0, 0, -120)
	}

	_, err := service.Cleanup("u1", 90)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	deleted, err := service.Cleanup("admin1", 90)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestCleanup_KeepsUnread(t *testing.T) {
	service, repo, profiles, _ := newNotificationFixture()
	profiles.add("admin1", models.RoleAdmin)

	seedNotifications(t, repo, "u1", 2)
	notifs := repo.forUser("u1")
	notifs[0].IsRead = true
	notifs[0].CreatedAt = time.Now().AddDate(0, 0, -120)
	notifs[1].CreatedAt = time.Now().AddDate(0, 0, -120) // old but unread

	deleted, err := service.Cleanup("admin1", 90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Len(t, repo.forUser("u1"), 1)
}
