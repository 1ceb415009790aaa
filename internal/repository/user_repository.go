package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/stewardship-hub/internal/model"
	"github.com/iliyamo/stewardship-hub/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,email,name,password_hash,is_budget_visible,created_at,updated_at"

// Create hashes password and inserts the user.  Emails are stored trimmed
// and lower-cased.
func (r *UserRepo) Create(ctx context.Context, email, name, password string, cost int) (model.User, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	ts := now()
	u := model.User{
		ID:              newID(),
		Email:           normalizeEmail(email),
		Name:            strings.TrimSpace(name),
		PasswordHash:    hash,
		IsBudgetVisible: true,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users ("+userCols+") VALUES (?,?,?,?,?,?,?)",
		u.ID, u.Email, u.Name, u.PasswordHash, u.IsBudgetVisible, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", normalizeEmail(email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
}

// SetBudgetVisible stores the dashboard preference.
func (r *UserRepo) SetBudgetVisible(ctx context.Context, id string, visible bool) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_budget_visible=?, updated_at=? WHERE id=?",
		visible, now(), id)
	return err
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, q, arg).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsBudgetVisible, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
