// Package session carries the authenticated caller through a request.  A
// Session is built once by the JWT middleware from the verified access
// token and read by handlers through From; nothing about the caller lives
// in package-level state.
package session

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stewardship-hub/internal/model"
)

const contextKey = "session"

// Session describes the caller of the current request.  Admins count as
// members.
type Session struct {
	UserID   string   `json:"userId"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Teams    []string `json:"teams"`
	Role     string   `json:"role"`
	IsAdmin  bool     `json:"isAdmin"`
	IsMember bool     `json:"isMember"`
}

// New builds a Session for a role previously derived with RoleFor.
func New(userID, email, name string, teams []string, role string) Session {
	if teams == nil {
		teams = []string{}
	}
	return Session{
		UserID:   userID,
		Email:    email,
		Name:     name,
		Teams:    teams,
		Role:     role,
		IsAdmin:  role == model.RoleAdmin,
		IsMember: role == model.RoleAdmin || role == model.RoleMember,
	}
}

// RoleFor maps team membership to an access role.
func RoleFor(teams []string, adminTeam, membersTeam string) string {
	switch {
	case slices.Contains(teams, adminTeam):
		return model.RoleAdmin
	case slices.Contains(teams, membersTeam):
		return model.RoleMember
	}
	return model.RolePending
}

// Verified reports whether the caller has been let into the house.
func (s Session) Verified() bool { return s.IsMember }

// Set stores s on the request context.
func Set(c echo.Context, s Session) {
	c.Set(contextKey, s)
}

// From returns the session stored by Set.
func From(c echo.Context) (Session, bool) {
	s, ok := c.Get(contextKey).(Session)
	return s, ok
}
