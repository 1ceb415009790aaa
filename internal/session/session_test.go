package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stewardship-hub/internal/model"
)

func TestRoleFor(t *testing.T) {
	cases := []struct {
		teams []string
		want  string
	}{
		{nil, model.RolePending},
		{[]string{"members"}, model.RoleMember},
		{[]string{"admin", "members"}, model.RoleAdmin},
		{[]string{"admin"}, model.RoleAdmin},
		{[]string{"kitchen"}, model.RolePending},
	}
	for _, tc := range cases {
		if got := RoleFor(tc.teams, "admin", "members"); got != tc.want {
			t.Errorf("RoleFor(%v) = %s, want %s", tc.teams, got, tc.want)
		}
	}
}

func TestNewFlags(t *testing.T) {
	admin := New("u1", "a@x", "A", []string{"admin"}, model.RoleAdmin)
	if !admin.IsAdmin || !admin.IsMember || !admin.Verified() {
		t.Errorf("admin flags = %+v", admin)
	}
	pending := New("u2", "p@x", "P", nil, model.RolePending)
	if pending.IsAdmin || pending.Verified() {
		t.Errorf("pending flags = %+v", pending)
	}
	if pending.Teams == nil {
		t.Error("Teams should be an empty slice, not nil")
	}
}

func TestSetFrom(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, ok := From(c); ok {
		t.Fatal("From on empty context reported ok")
	}
	Set(c, New("u1", "a@x", "A", nil, model.RoleMember))
	s, ok := From(c)
	if !ok || s.UserID != "u1" || !s.IsMember {
		t.Fatalf("From = %+v, %v", s, ok)
	}
}
