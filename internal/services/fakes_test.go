package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"circuithub_backend/internal/models"
	"circuithub_backend/internal/repositories"
)

// In-memory fakes for the repository interfaces. Fakes instead of a mock
// framework: the behavior under test (races, uniqueness, ownership) is
// easier to express as real data structures.

// --- profiles ---

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
	findErr  error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (f *fakeProfileRepo) FindByID(id string) (*models.Profile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfileRepo) Create(profile *models.Profile) error {
	if _, ok := f.profiles[profile.ID]; ok {
		return repositories.ErrProfileAlreadyExists
	}
	for _, p := range f.profiles {
		if p.Username == profile.Username {
			return repositories.ErrProfileAlreadyExists
		}
	}
	copied := *profile
	f.profiles[profile.ID] = &copied
	return nil
}

func (f *fakeProfileRepo) Update(profile *models.Profile) error {
	if _, ok := f.profiles[profile.ID]; !ok {
		return repositories.ErrProfileNotFound
	}
	copied := *profile
	f.profiles[profile.ID] = &copied
	return nil
}

func (f *fakeProfileRepo) UpdateRole(userID string, role models.Role) error {
	p, ok := f.profiles[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.Role = role
	return nil
}

func (f *fakeProfileRepo) CountByRole(role models.Role) (int64, error) {
	var n int64
	for _, p := range f.profiles {
		if p.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeProfileRepo) CountAll() (int64, error) {
	return int64(len(f.profiles)), nil
}

func (f *fakeProfileRepo) WithTx(*gorm.DB) repositories.ProfileRepository { return f }

func (f *fakeProfileRepo) add(id string, role models.Role) *models.Profile {
	p := &models.Profile{Username: "user-" + id, Role: role}
	p.ID = id
	f.profiles[id] = p
	return p
}

// --- users ---

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) FindByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindBySSOSubject(subject string) (*models.User, error) {
	for _, u := range f.users {
		if u.SSOSubject == subject {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Update(user *models.User) error {
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(userID string) error {
	delete(f.users, userID)
	return nil
}

func (f *fakeUserRepo) CountAll() (int64, error) { return int64(len(f.users)), nil }

func (f *fakeUserRepo) add(id, email string) *models.User {
	u := &models.User{Email: email}
	u.ID = id
	f.users[id] = u
	return u
}

// --- role requests ---

type fakeRoleRequestRepo struct {
	requests map[string]*models.RoleRequest
	nextID   int
}

func newFakeRoleRequestRepo() *fakeRoleRequestRepo {
	return &fakeRoleRequestRepo{requests: make(map[string]*models.RoleRequest), nextID: 1}
}

func (f *fakeRoleRequestRepo) Create(request *models.RoleRequest) error {
	// Mirrors the partial unique index: one pending row per user.
	for _, r := range f.requests {
		if r.UserID == request.UserID && r.Status == models.RoleRequestStatusPending {
			return repositories.ErrPendingRequestRace
		}
	}
	request.ID = fmt.Sprintf("req-%d", f.nextID)
	request.CreatedAt = time.Now()
	f.nextID++
	copied := *request
	f.requests[request.ID] = &copied
	return nil
}

func (f *fakeRoleRequestRepo) FindByID(id string) (*models.RoleRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, repositories.ErrRoleRequestNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRoleRequestRepo) FindPendingByUserID(userID string) (*models.RoleRequest, error) {
	for _, r := range f.requests {
		if r.UserID == userID && r.Status == models.RoleRequestStatusPending {
			copied := *r
			return &copied, nil
		}
	}
	return nil, repositories.ErrRoleRequestNotFound
}

func (f *fakeRoleRequestRepo) FindByUserID(userID string) ([]models.RoleRequest, error) {
	var out []models.RoleRequest
	for _, r := range f.requests {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRoleRequestRepo) FindWithFilter(filter repositories.RoleRequestFilter) ([]models.RoleRequest, int64, error) {
	var out []models.RoleRequest
	for _, r := range f.requests {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (f *fakeRoleRequestRepo) Update(request *models.RoleRequest) error {
	if _, ok := f.requests[request.ID]; !ok {
		return repositories.ErrRoleRequestNotFound
	}
	copied := *request
	f.requests[request.ID] = &copied
	return nil
}

func (f *fakeRoleRequestRepo) WithTx(*gorm.DB) repositories.RoleRequestRepository { return f }

// --- notifications ---

type fakeNotificationRepo struct {
	notifications []*models.Notification
	nextID        int
	createErr     error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (f *fakeNotificationRepo) Create(n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = fmt.Sprintf("notif-%d", f.nextID)
	n.CreatedAt = time.Now()
	f.nextID++
	copied := *n
	f.notifications = append(f.notifications, &copied)
	return nil
}

func (f *fakeNotificationRepo) CreateBulk(ns []*models.Notification) error {
	for _, n := range ns {
		if err := f.Create(n); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeNotificationRepo) FindByID(id string) (*models.Notification, error) {
	for _, n := range f.notifications {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) FindUserNotifications(userID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	var all []models.Notification
	for _, n := range f.notifications {
		if n.UserID != userID {
			continue
		}
		if criteria.UnreadOnly && n.IsRead {
			continue
		}
		all = append(all, *n)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeNotificationRepo) MarkAsRead(notificationID string) error {
	for _, n := range f.notifications {
		if n.ID == notificationID {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(userID string) (int64, error) {
	var count int64
	now := time.Now()
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(userID string) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	var kept []*models.Notification
	var deleted int64
	for _, n := range f.notifications {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	f.notifications = kept
	return deleted, nil
}

func (f *fakeNotificationRepo) WithTx(*gorm.DB) repositories.NotificationRepository { return f }

func (f *fakeNotificationRepo) forUser(userID string) []*models.Notification {
	var out []*models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// --- transaction manager ---

type fakeTxManager struct {
	err   error
	calls int
}

func (f *fakeTxManager) Do(fn func(tx *gorm.DB) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

// --- publisher ---

type recordedPublish struct {
	UserID  string
	Payload any
}

type fakePublisher struct {
	mu        sync.Mutex
	published []recordedPublish
}

func (f *fakePublisher) PublishToUser(userID string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, recordedPublish{UserID: userID, Payload: payload})
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

// --- email ---

type recordedEmail struct {
	To       string
	Role     string
	Approved bool
	Reason   string
}

type fakeEmailProvider struct {
	mu   sync.Mutex
	sent []recordedEmail
}

func (f *fakeEmailProvider) Send(string, string, string) error { return nil }

func (f *fakeEmailProvider) SendRoleDecision(to, role string, approved bool, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, recordedEmail{To: to, Role: role, Approved: approved, Reason: reason})
	return nil
}

func (f *fakeEmailProvider) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeEmailProvider) lastSent() recordedEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}
