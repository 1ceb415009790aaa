package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/stewardship-hub/internal/model"
)

// SuggestionRepo stores member purchase suggestions.  Members may edit or
// delete their own suggestions only while they are Pending; admins own the
// status and response fields.
type SuggestionRepo struct{ DB *sql.DB }

func NewSuggestionRepo(db *sql.DB) *SuggestionRepo { return &SuggestionRepo{DB: db} }

const suggestionCols = "id,item_name,reason,submitted_by,submitted_by_name,status,admin_response,created_at"

var suggestionFields = map[string]string{
	"id":          "id",
	"itemName":    "item_name",
	"submittedBy": "submitted_by",
	"status":      "status",
	"createdAt":   "created_at",
}

// List returns suggestions matching q, newest first by default.
func (r *SuggestionRepo) List(ctx context.Context, q ListQuery) ([]model.Suggestion, error) {
	tail, args, err := q.build(suggestionFields, "created_at DESC")
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, "SELECT "+suggestionCols+" FROM suggestions"+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Suggestion{}
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListByUser returns the suggestions submitted by userID, newest first.
func (r *SuggestionRepo) ListByUser(ctx context.Context, userID string) ([]model.Suggestion, error) {
	return r.List(ctx, ListQuery{Where: map[string]any{"submittedBy": userID}})
}

func (r *SuggestionRepo) GetByID(ctx context.Context, id string) (model.Suggestion, error) {
	s, err := scanSuggestion(r.DB.QueryRowContext(ctx,
		"SELECT "+suggestionCols+" FROM suggestions WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrNotFound
	}
	return s, err
}

// Create stores s as a new Pending suggestion.
func (r *SuggestionRepo) Create(ctx context.Context, s *model.Suggestion) error {
	s.ID = newID()
	s.ItemName = strings.TrimSpace(s.ItemName)
	s.Status = model.SuggestionPending
	s.AdminResponse = ""
	s.CreatedAt = now()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO suggestions ("+suggestionCols+") VALUES (?,?,?,?,?,?,?,?)",
		s.ID, s.ItemName, s.Reason, s.SubmittedBy, s.SubmitterName, s.Status, s.AdminResponse, s.CreatedAt)
	return err
}

// UpdateOwn edits the item name and reason of a suggestion owned by userID.
func (r *SuggestionRepo) UpdateOwn(ctx context.Context, id, userID, itemName, reason string) (model.Suggestion, error) {
	s, err := r.ownedPending(ctx, id, userID)
	if err != nil {
		return s, err
	}
	s.ItemName, s.Reason = strings.TrimSpace(itemName), reason
	_, err = r.DB.ExecContext(ctx,
		"UPDATE suggestions SET item_name=?, reason=? WHERE id=?", s.ItemName, s.Reason, id)
	return s, err
}

// DeleteOwn removes a suggestion owned by userID.
func (r *SuggestionRepo) DeleteOwn(ctx context.Context, id, userID string) error {
	if _, err := r.ownedPending(ctx, id, userID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, "DELETE FROM suggestions WHERE id=?", id)
	return err
}

// SetStatus changes the status of any suggestion.
func (r *SuggestionRepo) SetStatus(ctx context.Context, id string, status model.SuggestionStatus) (model.Suggestion, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return s, err
	}
	s.Status = status
	_, err = r.DB.ExecContext(ctx, "UPDATE suggestions SET status=? WHERE id=?", status, id)
	return s, err
}

// SetResponse stores the admin's reply on a suggestion.
func (r *SuggestionRepo) SetResponse(ctx context.Context, id, response string) (model.Suggestion, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return s, err
	}
	s.AdminResponse = response
	_, err = r.DB.ExecContext(ctx, "UPDATE suggestions SET admin_response=? WHERE id=?", response, id)
	return s, err
}

func (r *SuggestionRepo) ownedPending(ctx context.Context, id, userID string) (model.Suggestion, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return s, err
	}
	if s.SubmittedBy != userID {
		return s, ErrForbidden
	}
	if s.Status != model.SuggestionPending {
		return s, ErrConflict
	}
	return s, nil
}

func scanSuggestion(s rowScanner) (model.Suggestion, error) {
	var g model.Suggestion
	err := s.Scan(&g.ID, &g.ItemName, &g.Reason, &g.SubmittedBy, &g.SubmitterName,
		&g.Status, &g.AdminResponse, &g.CreatedAt)
	return g, err
}
