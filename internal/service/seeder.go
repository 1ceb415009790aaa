package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/stewardship-hub/internal/config"
	"github.com/iliyamo/stewardship-hub/internal/model"
	"github.com/iliyamo/stewardship-hub/internal/repository"
)

// Seeder loads a config.Seed into an empty or partially seeded database.
// Running it twice does not duplicate users, memberships or the semester.
// Purchases are always appended.
type Seeder struct {
	Semester    *repository.SemesterRepo
	Users       *repository.UserRepo
	Teams       *repository.TeamRepo
	Purchases   *repository.PurchaseRepo
	AdminTeamID string
	BcryptCost  int
	Loc         *time.Location
}

// SeedResult counts what Apply wrote.
type SeedResult struct {
	SemesterCreated bool
	SemesterUpdated bool
	AdminsCreated   int
	AdminsGranted   int
	Purchases       int
}

// Apply validates every record first and writes only when the whole seed is
// valid.
func (s *Seeder) Apply(ctx context.Context, seed config.Seed) (SeedResult, error) {
	var res SeedResult

	var sem *model.SemesterConfig
	if seed.Semester != nil {
		c, err := s.semester(*seed.Semester)
		if err != nil {
			return res, fmt.Errorf("semester: %w", err)
		}
		sem = c
	}
	purchases := make([]*model.Purchase, 0, len(seed.Purchases))
	for i, sp := range seed.Purchases {
		p, err := s.purchase(sp)
		if err != nil {
			return res, fmt.Errorf("purchase %d (%q): %w", i+1, sp.ItemName, err)
		}
		purchases = append(purchases, p)
	}
	for i, a := range seed.Admins {
		if a.Email == "" || a.Name == "" {
			return res, fmt.Errorf("admin %d: email and name are required", i+1)
		}
	}

	if sem != nil {
		active, err := s.Semester.GetActive(ctx)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			if err := s.Semester.Create(ctx, sem); err != nil {
				return res, err
			}
			res.SemesterCreated = true
		case err != nil:
			return res, err
		default:
			sem.ID = active.ID
			if err := s.Semester.Update(ctx, sem); err != nil {
				return res, err
			}
			res.SemesterUpdated = true
		}
	}

	for _, a := range seed.Admins {
		u, err := s.Users.GetByEmail(ctx, a.Email)
		if errors.Is(err, repository.ErrNotFound) {
			if a.Password == "" {
				return res, fmt.Errorf("admin %s: password is required for a new account", a.Email)
			}
			u, err = s.Users.Create(ctx, a.Email, a.Name, a.Password, s.BcryptCost)
			if err == nil {
				res.AdminsCreated++
			}
		}
		if err != nil {
			return res, fmt.Errorf("admin %s: %w", a.Email, err)
		}
		ok, err := s.Teams.IsMember(ctx, s.AdminTeamID, u.ID)
		if err != nil {
			return res, err
		}
		if !ok {
			if err := s.Teams.AddMember(ctx, s.AdminTeamID, u.ID, "steward"); err != nil {
				return res, err
			}
			res.AdminsGranted++
		}
	}

	if len(purchases) > 0 {
		if err := s.Purchases.CreateMany(ctx, purchases); err != nil {
			return res, err
		}
		res.Purchases = len(purchases)
	}
	log.Printf("seed: semester created=%t updated=%t admins=%d/%d purchases=%d",
		res.SemesterCreated, res.SemesterUpdated, res.AdminsCreated, res.AdminsGranted, res.Purchases)
	return res, nil
}

func (s *Seeder) semester(in config.SeedSemester) (*model.SemesterConfig, error) {
	start, err := model.ParseCalendarDate(in.StartDate, s.Loc)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	end, err := model.ParseCalendarDate(in.EndDate, s.Loc)
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}
	c := &model.SemesterConfig{
		SemesterName:       in.Name,
		StartDate:          start,
		EndDate:            end,
		BrothersOnMealPlan: in.BrothersOnMealPlan,
		MealPlanCost:       in.MealPlanCost,
		CarryoverBalance:   in.CarryoverBalance,
		AdditionalRevenue:  in.AdditionalRevenue,
	}
	return c, c.Validate()
}

func (s *Seeder) purchase(in config.SeedPurchase) (*model.Purchase, error) {
	freq, err := model.ParseFrequency(in.Frequency)
	if err != nil {
		return nil, err
	}
	date, err := model.ParseCalendarDate(in.Date, s.Loc)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	p := &model.Purchase{
		ItemName:              in.ItemName,
		Cost:                  in.Cost,
		Quantity:              in.Quantity,
		Category:              in.Category,
		PurchaseDate:          date,
		PurchaseFrequency:     freq,
		IsActiveForProjection: !in.Inactive,
		IsStockItem:           in.Stock,
	}
	if p.Quantity == 0 {
		p.Quantity = 1
	}
	if p.Category == "" {
		p.Category = model.DefaultCategory
	}
	return p, p.Validate()
}
