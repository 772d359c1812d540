package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"circuithub_backend/internal/models"
)

func TestAuthorize_NoSessionRedirectsToLogin(t *testing.T) {
	cases := []*Session{nil, {}, {Role: models.RoleMember}}
	for _, session := range cases {
		decision := Authorize(session, models.RoleAdmin, "/admin/role-requests?status=pending")
		assert.False(t, decision.Allowed)
		assert.Equal(t, "/auth/login?redirectTo=%2Fadmin%2Frole-requests%3Fstatus%3Dpending", decision.RedirectPath)
	}
}

func TestAuthorize_NoRequirementAdmitsAnySession(t *testing.T) {
	for _, role := range []models.Role{models.RoleMember, models.RoleAlumni, models.RoleAdmin} {
		decision := Authorize(&Session{UserID: "u1", Role: role}, "", "/dashboard")
		assert.True(t, decision.Allowed, "role %s", role)
		assert.Empty(t, decision.RedirectPath)
	}
}

func TestAuthorize_AdminPassesEveryRequirement(t *testing.T) {
	session := &Session{UserID: "a1", Role: models.RoleAdmin}
	for _, required := range []models.Role{models.RoleMember, models.RoleAlumni, models.RoleAdmin} {
		assert.True(t, Authorize(session, required, "/whatever").Allowed)
	}
}

func TestAuthorize_WrongRoleLandsOnDashboard(t *testing.T) {
	session := &Session{UserID: "u1", Role: models.RoleMember}

	decision := Authorize(session, models.RoleAdmin, "/admin")
	assert.False(t, decision.Allowed)
	assert.Equal(t, "/dashboard", decision.RedirectPath)
}

func TestAuthorize_MatchingRoleAllowed(t *testing.T) {
	session := &Session{UserID: "u1", Role: models.RoleAlumni}
	assert.True(t, Authorize(session, models.RoleAlumni, "/alumni").Allowed)
}

func TestLoginPath(t *testing.T) {
	assert.Equal(t, "/auth/login", LoginPath(""))
	assert.Equal(t, "/auth/login?redirectTo=%2Fprofile", LoginPath("/profile"))
}
