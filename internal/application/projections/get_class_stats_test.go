package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"homeworkbot/internal/domain/user"
)

func TestQueryClassStats(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	users := &mockUserStore{users: map[string]user.User{
		"1": {ID: "1", Class: "Б9", Role: user.RoleAdmin, Stats: user.Stats{LastActive: now.Add(-time.Hour)}},
		"2": {ID: "2", Class: "Б9", Role: user.RoleUser, Stats: user.Stats{LastActive: now.Add(-48 * time.Hour)}},
		"3": {ID: "3", Class: "Б9", Role: user.RoleUser},
		"4": {ID: "4", Class: "А9", Role: user.RoleUser, Stats: user.Stats{LastActive: now}},
	}}
	deps := ClassStatsDeps{UserStore: users}

	got, err := QueryClassStats(context.Background(), ClassStatsQuery{UserID: "1", Now: now}, deps)
	if err != nil {
		t.Fatalf("QueryClassStats: %v", err)
	}
	if got.Class != "Б9" {
		t.Errorf("class = %q", got.Class)
	}
	if got.Total != 3 {
		t.Errorf("total = %d, want 3", got.Total)
	}
	if got.Admins != 1 {
		t.Errorf("admins = %d, want 1", got.Admins)
	}
	if got.ActiveToday != 1 {
		t.Errorf("active today = %d, want 1", got.ActiveToday)
	}
}

func TestQueryClassStats_Gating(t *testing.T) {
	users := &mockUserStore{users: map[string]user.User{
		"2": {ID: "2", Class: "Б9", Role: user.RoleUser},
	}}
	deps := ClassStatsDeps{UserStore: users}

	if _, err := QueryClassStats(context.Background(), ClassStatsQuery{UserID: "2"}, deps); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("err = %v, want ErrNotAdmin", err)
	}
	if _, err := QueryClassStats(context.Background(), ClassStatsQuery{UserID: "99"}, deps); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("err = %v, want ErrNotRegistered", err)
	}
}
