package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/stewardship-hub/internal/model"
)

// VerificationRepo stores membership verification requests.  A user has at
// most one pending request at a time.
type VerificationRepo struct{ DB *sql.DB }

func NewVerificationRepo(db *sql.DB) *VerificationRepo { return &VerificationRepo{DB: db} }

const verificationCols = "id,user_id,user_name,email,status,created_at"

// Create opens a pending request for the user.  When one is already
// pending it is returned unchanged and created is false.
func (r *VerificationRepo) Create(ctx context.Context, userID, userName, email string) (v model.VerificationRequest, created bool, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return v, false, err
	}
	defer tx.Rollback()

	v, err = scanVerification(tx.QueryRowContext(ctx,
		"SELECT "+verificationCols+" FROM verification_requests WHERE user_id=? AND status=? LIMIT 1",
		userID, model.VerificationPending))
	if err == nil {
		return v, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return v, false, err
	}

	v = model.VerificationRequest{
		ID:        newID(),
		UserID:    userID,
		UserName:  userName,
		Email:     email,
		Status:    model.VerificationPending,
		CreatedAt: now(),
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO verification_requests ("+verificationCols+") VALUES (?,?,?,?,?,?)",
		v.ID, v.UserID, v.UserName, v.Email, v.Status, v.CreatedAt); err != nil {
		return model.VerificationRequest{}, false, err
	}
	return v, true, tx.Commit()
}

func (r *VerificationRepo) GetByID(ctx context.Context, id string) (model.VerificationRequest, error) {
	v, err := scanVerification(r.DB.QueryRowContext(ctx,
		"SELECT "+verificationCols+" FROM verification_requests WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return v, ErrNotFound
	}
	return v, err
}

// ListByStatus returns requests in status, oldest first.
func (r *VerificationRepo) ListByStatus(ctx context.Context, status model.VerificationStatus) ([]model.VerificationRequest, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+verificationCols+" FROM verification_requests WHERE status=? ORDER BY created_at", status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.VerificationRequest{}
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// LatestForUser returns the user's most recent request or ErrNotFound.
func (r *VerificationRepo) LatestForUser(ctx context.Context, userID string) (model.VerificationRequest, error) {
	v, err := scanVerification(r.DB.QueryRowContext(ctx,
		"SELECT "+verificationCols+" FROM verification_requests WHERE user_id=? ORDER BY created_at DESC LIMIT 1", userID))
	if errors.Is(err, sql.ErrNoRows) {
		return v, ErrNotFound
	}
	return v, err
}

// SetStatus moves a request to status.
func (r *VerificationRepo) SetStatus(ctx context.Context, id string, status model.VerificationStatus) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, "UPDATE verification_requests SET status=? WHERE id=?", status, id)
	return err
}

func scanVerification(s rowScanner) (model.VerificationRequest, error) {
	var v model.VerificationRequest
	err := s.Scan(&v.ID, &v.UserID, &v.UserName, &v.Email, &v.Status, &v.CreatedAt)
	return v, err
}
