package authz

import (
	"net/url"

	"circuithub_backend/internal/models"
)

// Session is the authenticated identity a request carries, with the role
// resolved from the profile row (not the token claim) whenever freshness
// matters.
type Session struct {
	UserID string
	Role   models.Role
}

// Decision is the outcome of a policy check. A denied request is never an
// error page on the web side; it is a redirect to somewhere useful.
type Decision struct {
	Allowed      bool
	RedirectPath string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func RedirectTo(path string) Decision {
	return Decision{RedirectPath: path}
}

// Authorize decides whether a session may reach a resource that requires
// requiredRole. originalPath is preserved so login can bounce the visitor
// back where they were headed.
//
// No session → redirect to login with redirectTo. A resource with no role
// requirement admits any session. Admins pass every requirement; anyone
// else with the wrong role lands on the dashboard rather than an error.
func Authorize(session *Session, requiredRole models.Role, originalPath string) Decision {
	if session == nil || session.UserID == "" {
		return RedirectTo(LoginPath(originalPath))
	}

	if requiredRole == "" {
		return Allow()
	}

	if session.Role == requiredRole || session.Role == models.RoleAdmin {
		return Allow()
	}

	return RedirectTo("/dashboard")
}

// LoginPath builds the login redirect, carrying the original destination.
func LoginPath(originalPath string) string {
	if originalPath == "" {
		return "/auth/login"
	}
	return "/auth/login?redirectTo=" + url.QueryEscape(originalPath)
}
