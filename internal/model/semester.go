package model

import (
	"errors"
	"strings"
	"time"
)

// SemesterConfig is the budget configuration for one semester.  Only one
// record is active at a time; admins create it once per semester and edit
// it in place afterwards.  It corresponds to a row in the
// `semester_configs` table.
//
// Fields:
//  ID                 – document identifier (uuid).
//  SemesterName       – free text label, e.g. "Fall 2025".
//  StartDate, EndDate – the semester window; StartDate must precede EndDate.
//  BrothersOnMealPlan – number of meal-plan participants (>= 0).
//  MealPlanCost       – per-participant charge for the semester (>= 0).
//  CarryoverBalance   – funds carried from a prior period (may be negative).
//  AdditionalRevenue  – non meal-plan income.
type SemesterConfig struct {
	ID                 string    `json:"id"`                 // semester_configs.id
	SemesterName       string    `json:"semesterName"`       // semester_configs.semester_name
	StartDate          time.Time `json:"startDate"`          // semester_configs.start_date
	EndDate            time.Time `json:"endDate"`            // semester_configs.end_date
	BrothersOnMealPlan int       `json:"brothersOnMealPlan"` // semester_configs.brothers_on_meal_plan
	MealPlanCost       float64   `json:"mealPlanCost"`       // semester_configs.meal_plan_cost
	CarryoverBalance   float64   `json:"carryoverBalance"`   // semester_configs.carryover_balance
	AdditionalRevenue  float64   `json:"additionalRevenue"`  // semester_configs.additional_revenue
	CreatedAt          time.Time `json:"createdAt"`          // semester_configs.created_at
	UpdatedAt          time.Time `json:"updatedAt"`          // semester_configs.updated_at
}

// HasDates reports whether both ends of the semester window are set.
func (c *SemesterConfig) HasDates() bool {
	return c != nil && !c.StartDate.IsZero() && !c.EndDate.IsZero()
}

// HasValidWindow reports whether the window is set and StartDate < EndDate.
func (c *SemesterConfig) HasValidWindow() bool {
	return c.HasDates() && c.StartDate.Before(c.EndDate)
}

// Validate checks the invariants enforced on every write.
func (c *SemesterConfig) Validate() error {
	switch {
	case strings.TrimSpace(c.SemesterName) == "":
		return errors.New("semesterName is required")
	case !c.HasDates():
		return errors.New("startDate and endDate are required")
	case !c.StartDate.Before(c.EndDate):
		return errors.New("startDate must be before endDate")
	case c.BrothersOnMealPlan < 0:
		return errors.New("brothersOnMealPlan must be >= 0")
	case c.MealPlanCost < 0:
		return errors.New("mealPlanCost must be >= 0")
	}
	return nil
}
