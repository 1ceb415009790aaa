package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/stewardship-hub/internal/config"
	"github.com/iliyamo/stewardship-hub/internal/model"
	"github.com/iliyamo/stewardship-hub/internal/repository"
)

func newSeeder(t *testing.T) *Seeder {
	t.Helper()
	db := newTestDB(t)
	return &Seeder{
		Semester:    repository.NewSemesterRepo(db),
		Users:       repository.NewUserRepo(db),
		Teams:       repository.NewTeamRepo(db),
		Purchases:   repository.NewPurchaseRepo(db),
		AdminTeamID: "admin",
		BcryptCost:  4,
		Loc:         time.UTC,
	}
}

func sampleSeed() config.Seed {
	return config.Seed{
		Semester: &config.SeedSemester{
			Name:               "Fall 2025",
			StartDate:          "2025-08-25",
			EndDate:            "2025-12-12",
			BrothersOnMealPlan: 40,
			MealPlanCost:       250,
		},
		Admins: []config.SeedUser{{Email: "Steward@Example.com", Name: "Steward", Password: "secret123"}},
		Purchases: []config.SeedPurchase{
			{ItemName: "Milk", Cost: 12, Quantity: 4, Date: "2025-09-01", Frequency: "weekly", Stock: true},
			{ItemName: "Grill", Cost: 300, Date: "2025-09-02"},
		},
	}
}

func TestSeederApply(t *testing.T) {
	s := newSeeder(t)
	ctx := context.Background()

	res, err := s.Apply(ctx, sampleSeed())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !res.SemesterCreated || res.AdminsCreated != 1 || res.AdminsGranted != 1 || res.Purchases != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}

	cfg, err := s.Semester.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if cfg.StartDate.Hour() != 12 {
		t.Fatalf("start date not anchored at noon: %v", cfg.StartDate)
	}
	u, err := s.Users.GetByEmail(ctx, "steward@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if ok, _ := s.Teams.IsMember(ctx, "admin", u.ID); !ok {
		t.Fatal("seeded admin is not in the admin team")
	}

	ps, err := s.Purchases.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("want 2 purchases, got %d", len(ps))
	}
	if ps[0].PurchaseFrequency != model.FrequencyRecurring || !ps[0].IsStockItem {
		t.Fatalf("milk stored wrong: %+v", ps[0])
	}
	if ps[1].PurchaseFrequency != model.FrequencyOnce || ps[1].Quantity != 1 || ps[1].Category != model.DefaultCategory {
		t.Fatalf("grill defaults not applied: %+v", ps[1])
	}

	// second run updates the semester and leaves the admin alone
	seed := sampleSeed()
	seed.Purchases = nil
	res, err = s.Apply(ctx, seed)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if !res.SemesterUpdated || res.AdminsCreated != 0 || res.AdminsGranted != 0 {
		t.Fatalf("second run: unexpected result %+v", res)
	}
}

func TestSeederRejectsInvalidBeforeWriting(t *testing.T) {
	s := newSeeder(t)
	ctx := context.Background()

	seed := sampleSeed()
	seed.Purchases = append(seed.Purchases, config.SeedPurchase{ItemName: "Bad", Cost: 0, Date: "2025-09-03"})
	_, err := s.Apply(ctx, seed)
	if err == nil || !strings.Contains(err.Error(), "purchase 3") {
		t.Fatalf("want purchase 3 error, got %v", err)
	}
	if _, err := s.Semester.GetActive(ctx); err != repository.ErrNotFound {
		t.Fatalf("semester written despite invalid seed: %v", err)
	}
}
