package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Seed is the TOML document accepted by `hubctl seed`.  Dates are calendar
// dates (YYYY-MM-DD) and are anchored at local noon when imported.
type Seed struct {
	Semester  *SeedSemester  `toml:"semester"`
	Admins    []SeedUser     `toml:"admins"`
	Purchases []SeedPurchase `toml:"purchases"`
}

type SeedSemester struct {
	Name               string  `toml:"name"`
	StartDate          string  `toml:"start_date"`
	EndDate            string  `toml:"end_date"`
	BrothersOnMealPlan int     `toml:"brothers_on_meal_plan"`
	MealPlanCost       float64 `toml:"meal_plan_cost"`
	CarryoverBalance   float64 `toml:"carryover_balance"`
	AdditionalRevenue  float64 `toml:"additional_revenue"`
}

// SeedUser is created (if missing) and added to the admin team.
type SeedUser struct {
	Email    string `toml:"email"`
	Name     string `toml:"name"`
	Password string `toml:"password"`
}

type SeedPurchase struct {
	ItemName  string  `toml:"item_name"`
	Cost      float64 `toml:"cost"`
	Quantity  int     `toml:"quantity"`
	Category  string  `toml:"category,omitempty"`
	Date      string  `toml:"date"`
	Frequency string  `toml:"frequency,omitempty"`
	Stock     bool    `toml:"stock,omitempty"`
	Inactive  bool    `toml:"inactive,omitempty"`
}

// LoadSeed decodes the seed file at path.  Keys the Seed type does not know
// are reported as an error so typos do not silently drop data.
func LoadSeed(path string) (Seed, error) {
	var s Seed
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading seed: %w", err)
	}
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return s, fmt.Errorf("parsing seed: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return s, fmt.Errorf("parsing seed: unknown key %q", undec[0].String())
	}
	return s, nil
}
