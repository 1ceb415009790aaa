package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/stewardship-hub/internal/budget"
	"github.com/iliyamo/stewardship-hub/internal/database"
	"github.com/iliyamo/stewardship-hub/internal/model"
	"github.com/iliyamo/stewardship-hub/internal/queue"
	"github.com/iliyamo/stewardship-hub/internal/repository"
	"github.com/iliyamo/stewardship-hub/internal/session"
)

type fakePublisher struct {
	approved []queue.VerificationApprovedEvent
	logged   []queue.PurchaseLoggedEvent
	err      error
}

func (f *fakePublisher) PublishVerificationApproved(_ context.Context, ev queue.VerificationApprovedEvent) error {
	f.approved = append(f.approved, ev)
	return f.err
}

func (f *fakePublisher) PublishPurchaseLogged(_ context.Context, ev queue.PurchaseLoggedEvent) error {
	f.logged = append(f.logged, ev)
	return f.err
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(context.Background(), db, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func noon(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d.Add(12 * time.Hour)
}

func newApprover(t *testing.T) (*Approver, *fakePublisher, model.User, model.VerificationRequest) {
	t.Helper()
	db := newTestDB(t)
	ctx := context.Background()
	users := repository.NewUserRepo(db)
	u, err := users.Create(ctx, "new@example.com", "New Member", "secret123", 4)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	verifications := repository.NewVerificationRepo(db)
	req, _, err := verifications.Create(ctx, u.ID, u.Name, u.Email)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	pub := &fakePublisher{}
	return &Approver{
		Verifications: verifications,
		Teams:         repository.NewTeamRepo(db),
		Users:         users,
		Events:        pub,
		MembersTeamID: "members",
	}, pub, u, req
}

func TestApproveRequiresAllFields(t *testing.T) {
	a, _, u, req := newApprover(t)
	cases := []ApproveInput{
		{RequestID: req.ID, UserEmail: u.Email},
		{UserID: u.ID, UserEmail: u.Email},
		{UserID: u.ID, RequestID: req.ID, UserEmail: "  "},
	}
	for _, in := range cases {
		_, err := a.Approve(context.Background(), in)
		if !errors.Is(err, ErrMissingApprovalFields) {
			t.Errorf("Approve(%+v) = %v, want ErrMissingApprovalFields", in, err)
		}
	}
	if ErrMissingApprovalFields.Error() != "userId, userEmail, and requestId are required" {
		t.Errorf("message = %q", ErrMissingApprovalFields.Error())
	}
}

func TestApproveGrantsMembership(t *testing.T) {
	a, pub, u, req := newApprover(t)
	ctx := context.Background()

	got, err := a.Approve(ctx, ApproveInput{UserID: u.ID, RequestID: req.ID, UserEmail: u.Email, ApprovedBy: "admin-1"})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got.Status != model.VerificationApproved {
		t.Errorf("status = %q, want approved", got.Status)
	}
	stored, _ := a.Verifications.GetByID(ctx, req.ID)
	if stored.Status != model.VerificationApproved {
		t.Errorf("stored status = %q, want approved", stored.Status)
	}
	if ok, _ := a.Teams.IsMember(ctx, "members", u.ID); !ok {
		t.Error("user was not added to members")
	}
	if len(pub.approved) != 1 || pub.approved[0].Email != u.Email || pub.approved[0].ApprovedBy != "admin-1" {
		t.Errorf("events = %+v", pub.approved)
	}

	if _, err := a.Approve(ctx, ApproveInput{UserID: u.ID, RequestID: req.ID, UserEmail: u.Email}); !errors.Is(err, ErrNotPending) {
		t.Errorf("second Approve = %v, want ErrNotPending", err)
	}
}

func TestApproveIgnoresPublishFailure(t *testing.T) {
	a, pub, u, req := newApprover(t)
	pub.err = errors.New("broker down")
	if _, err := a.Approve(context.Background(), ApproveInput{UserID: u.ID, RequestID: req.ID, UserEmail: u.Email}); err != nil {
		t.Fatalf("Approve = %v, want nil despite publish failure", err)
	}
}

func TestApproveRejectsMismatchedUser(t *testing.T) {
	a, _, u, req := newApprover(t)
	_, err := a.Approve(context.Background(), ApproveInput{UserID: "someone-else", RequestID: req.ID, UserEmail: u.Email})
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	if _, err := a.Approve(context.Background(), ApproveInput{UserID: u.ID, RequestID: "missing", UserEmail: u.Email}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("missing request: got %v, want ErrNotFound", err)
	}
}

func TestDeny(t *testing.T) {
	a, pub, u, req := newApprover(t)
	ctx := context.Background()
	got, err := a.Deny(ctx, req.ID)
	if err != nil || got.Status != model.VerificationDenied {
		t.Fatalf("Deny = %+v, %v", got, err)
	}
	if ok, _ := a.Teams.IsMember(ctx, "members", u.ID); ok {
		t.Error("denied user was added to members")
	}
	if len(pub.approved) != 0 {
		t.Error("deny published an approval event")
	}
	if _, err := a.Deny(ctx, req.ID); !errors.Is(err, ErrNotPending) {
		t.Errorf("second Deny = %v, want ErrNotPending", err)
	}
}

func newDashboard(t *testing.T) *Dashboard {
	db := newTestDB(t)
	return &Dashboard{
		Semester:      repository.NewSemesterRepo(db),
		Purchases:     repository.NewPurchaseRepo(db),
		Shopping:      repository.NewShoppingRepo(db),
		Suggestions:   repository.NewSuggestionRepo(db),
		Verifications: repository.NewVerificationRepo(db),
	}
}

func TestBudgetWithoutConfigDegrades(t *testing.T) {
	d := newDashboard(t)
	ctx := context.Background()
	if err := d.Purchases.Create(ctx, &model.Purchase{
		ItemName: "Milk", Cost: 5, Quantity: 1, PurchaseDate: noon("2025-09-02"),
		PurchaseFrequency: model.FrequencyRecurring, IsActiveForProjection: true,
	}); err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	s, err := d.Budget(ctx, noon("2025-09-10"))
	if err != nil {
		t.Fatalf("Budget: %v", err)
	}
	if s.Config != nil || len(s.Usage) != 0 {
		t.Errorf("config=%v usage=%v, want nil/empty", s.Config, s.Usage)
	}
	if s.Metrics != (budget.Metrics{}) {
		t.Errorf("metrics = %+v, want zero value", s.Metrics)
	}
	if len(s.Purchases) != 1 {
		t.Errorf("purchases = %d, want 1", len(s.Purchases))
	}
}

func TestAdminAndMemberViews(t *testing.T) {
	d := newDashboard(t)
	ctx := context.Background()

	cfg := &model.SemesterConfig{
		SemesterName: "Fall 2025", StartDate: noon("2025-09-01"), EndDate: noon("2025-12-15"),
		BrothersOnMealPlan: 40, MealPlanCost: 550,
	}
	if err := d.Semester.Create(ctx, cfg); err != nil {
		t.Fatalf("create config: %v", err)
	}
	var batch []*model.Purchase
	for i := 0; i < 12; i++ {
		batch = append(batch, &model.Purchase{
			ItemName: "Milk", Cost: 4, Quantity: 1, PurchaseDate: noon("2025-09-02").AddDate(0, 0, i),
			PurchaseFrequency: model.FrequencyRecurring, IsActiveForProjection: true, IsStockItem: true,
		})
	}
	if err := d.Purchases.CreateMany(ctx, batch); err != nil {
		t.Fatalf("create purchases: %v", err)
	}
	if _, _, err := d.Shopping.Add(ctx, "Eggs", "u1"); err != nil {
		t.Fatalf("shopping add: %v", err)
	}
	if err := d.Suggestions.Create(ctx, &model.Suggestion{ItemName: "Oat milk", SubmittedBy: "u1"}); err != nil {
		t.Fatalf("suggestion: %v", err)
	}

	v, err := d.AdminView(ctx, noon("2025-09-15"))
	if err != nil {
		t.Fatalf("AdminView: %v", err)
	}
	if v.Config == nil || v.Metrics.TotalBudget != 22000 || v.Metrics.TotalSpent != 48 {
		t.Errorf("metrics = %+v", v.Metrics)
	}
	if len(v.RecentPurchases) != recentPurchases || !v.RecentPurchases[0].PurchaseDate.Equal(noon("2025-09-13")) {
		t.Errorf("recent = %d, first %v", len(v.RecentPurchases), v.RecentPurchases[0].PurchaseDate)
	}
	if len(v.UsageStats) != 1 || v.UsageStats[0].ItemName != "Milk" {
		t.Errorf("usage = %+v", v.UsageStats)
	}
	if len(v.ShoppingList) != 1 || len(v.PendingSuggestions) != 1 || len(v.PendingRequests) != 0 {
		t.Errorf("lists = %d/%d/%d", len(v.ShoppingList), len(v.PendingSuggestions), len(v.PendingRequests))
	}

	m, err := d.MemberView(ctx, session.New("u1", "", "", nil, model.RoleMember))
	if err != nil {
		t.Fatalf("MemberView: %v", err)
	}
	if len(m.StockItems) != 1 || m.StockItems[0] != "Milk" || len(m.MySuggestions) != 1 {
		t.Errorf("member view = %+v", m)
	}
	other, _ := d.MemberView(ctx, session.New("u2", "", "", nil, model.RoleMember))
	if len(other.MySuggestions) != 0 {
		t.Errorf("u2 sees %d suggestions, want 0", len(other.MySuggestions))
	}
}

func TestPublisherWithoutURLIsNoop(t *testing.T) {
	p := NewPublisher("")
	if err := p.PublishPurchaseLogged(context.Background(), queue.PurchaseLoggedEvent{}); err != nil {
		t.Fatalf("got %v, want nil", err)
	}
}
