// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"github.com/gin-gonic/gin"
)

// Identity represents the authenticated caller's identity.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access caller information without depending on Gin.
type Identity interface {
	// Subject returns the authenticated user's identifier (JWT sub).
	Subject() string
	// CallerKey returns the opaque session key used for per-caller accounting.
	CallerKey() string
	// Roles returns the user's assigned roles.
	Roles() []string
	// HasRole checks if the user has a specific role.
	HasRole(role string) bool
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	subject       string
	sessionID     string
	roles         []string
	authenticated bool
}

func (i *identity) Subject() string {
	return i.subject
}

// CallerKey prefers the session id so that two sessions of one user are
// accounted separately.
func (i *identity) CallerKey() string {
	if i.sessionID != "" {
		return "sid:" + i.sessionID
	}
	return "sub:" + i.subject
}

func (i *identity) Roles() []string {
	return i.roles
}

func (i *identity) HasRole(role string) bool {
	for _, r := range i.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	subject := c.GetString(ContextSubjectKey)
	if subject == "" {
		return &identity{authenticated: false}
	}

	var roleList []string
	if roles, ok := c.Get(ContextRolesKey); ok {
		roleList, _ = roles.([]string)
	}

	return &identity{
		subject:       subject,
		sessionID:     c.GetString(ContextSessionIDKey),
		roles:         roleList,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the caller is not authenticated, it aborts with 401 and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		abortUnauthorized(c, errMissingToken)
		return nil
	}
	return id
}
