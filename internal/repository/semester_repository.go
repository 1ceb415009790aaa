package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/stewardship-hub/internal/model"
)

// SemesterRepo stores semester budget configuration.  The active record is
// the most recently created one; older rows are kept as history.
type SemesterRepo struct{ DB *sql.DB }

func NewSemesterRepo(db *sql.DB) *SemesterRepo { return &SemesterRepo{DB: db} }

const semesterCols = "id,semester_name,start_date,end_date,brothers_on_meal_plan,meal_plan_cost,carryover_balance,additional_revenue,created_at,updated_at"

// GetActive returns the active configuration or ErrNotFound.
func (r *SemesterRepo) GetActive(ctx context.Context) (*model.SemesterConfig, error) {
	return r.getOne(ctx, "SELECT "+semesterCols+" FROM semester_configs ORDER BY created_at DESC, id DESC LIMIT 1")
}

func (r *SemesterRepo) GetByID(ctx context.Context, id string) (*model.SemesterConfig, error) {
	return r.getOne(ctx, "SELECT "+semesterCols+" FROM semester_configs WHERE id=?", id)
}

// Create inserts c, assigning its id and timestamps.
func (r *SemesterRepo) Create(ctx context.Context, c *model.SemesterConfig) error {
	ts := now()
	c.ID = newID()
	c.CreatedAt, c.UpdatedAt = ts, ts
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO semester_configs ("+semesterCols+") VALUES (?,?,?,?,?,?,?,?,?,?)",
		c.ID, c.SemesterName, nullTime(c.StartDate), nullTime(c.EndDate),
		c.BrothersOnMealPlan, c.MealPlanCost, c.CarryoverBalance, c.AdditionalRevenue,
		c.CreatedAt, c.UpdatedAt)
	return err
}

// Update overwrites every editable field of the record with c.ID.
func (r *SemesterRepo) Update(ctx context.Context, c *model.SemesterConfig) error {
	existing, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = now()
	_, err = r.DB.ExecContext(ctx,
		`UPDATE semester_configs SET semester_name=?, start_date=?, end_date=?, brothers_on_meal_plan=?,
		 meal_plan_cost=?, carryover_balance=?, additional_revenue=?, updated_at=? WHERE id=?`,
		c.SemesterName, nullTime(c.StartDate), nullTime(c.EndDate), c.BrothersOnMealPlan,
		c.MealPlanCost, c.CarryoverBalance, c.AdditionalRevenue, c.UpdatedAt, c.ID)
	return err
}

func (r *SemesterRepo) getOne(ctx context.Context, q string, args ...any) (*model.SemesterConfig, error) {
	var (
		c          model.SemesterConfig
		start, end sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, q, args...).Scan(&c.ID, &c.SemesterName, &start, &end,
		&c.BrothersOnMealPlan, &c.MealPlanCost, &c.CarryoverBalance, &c.AdditionalRevenue,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if start.Valid {
		c.StartDate = start.Time
	}
	if end.Valid {
		c.EndDate = end.Time
	}
	return &c, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
