package repository

import (
	"context"
	"database/sql"
)

// TeamRepo manages team_memberships.  Teams themselves are plain ids
// ("admin", "members") configured in the environment.
type TeamRepo struct{ DB *sql.DB }

func NewTeamRepo(db *sql.DB) *TeamRepo { return &TeamRepo{DB: db} }

// AddMember grants membership.  Adding an existing member is a no-op.
func (r *TeamRepo) AddMember(ctx context.Context, teamID, userID, roles string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO team_memberships (team_id, user_id, roles, created_at) VALUES (?,?,?,?)",
		teamID, userID, roles, now())
	if isDuplicate(err) {
		return nil
	}
	return err
}

// RemoveMember revokes membership; removing a non-member is a no-op.
func (r *TeamRepo) RemoveMember(ctx context.Context, teamID, userID string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM team_memberships WHERE team_id=? AND user_id=?", teamID, userID)
	return err
}

// IsMember reports whether userID belongs to teamID.
func (r *TeamRepo) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM team_memberships WHERE team_id=? AND user_id=?",
		teamID, userID).Scan(&n)
	return n > 0, err
}

// TeamsForUser lists the team ids userID belongs to, sorted.
func (r *TeamRepo) TeamsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT team_id FROM team_memberships WHERE user_id=? ORDER BY team_id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	teams := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}
