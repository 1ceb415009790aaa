package model

import "time"

// User represents an account as stored in the `users` table.  The json
// tags are omitted; handlers build their own response shapes so that the
// password hash never leaves the repository layer.
//
// Fields:
//  ID              – uuid primary key.
//  Email           – unique, lower-cased email address.
//  Name            – display name shown to admins in verification requests.
//  PasswordHash    – bcrypt hash.
//  IsBudgetVisible – dashboard preference for admins.
type User struct {
	ID              string    // users.id
	Email           string    // users.email
	Name            string    // users.name
	PasswordHash    string    // users.password_hash
	IsBudgetVisible bool      // users.is_budget_visible
	CreatedAt       time.Time // users.created_at
	UpdatedAt       time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

// TeamMembership grants a user access through a team such as "admin" or
// "members".
type TeamMembership struct {
	TeamID    string    // team_memberships.team_id
	UserID    string    // team_memberships.user_id
	Roles     string    // team_memberships.roles (comma separated)
	CreatedAt time.Time // team_memberships.created_at
}

// Access roles carried in the access token.  A user's role is derived from
// team membership whenever a token is issued.
const (
	RoleAdmin   = "ADMIN"
	RoleMember  = "MEMBER"
	RolePending = "PENDING"
)
