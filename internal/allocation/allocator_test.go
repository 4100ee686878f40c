package allocation

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/platform/apierr"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

func testAllocator(t *testing.T) *Allocator {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return New(log, DefaultThresholds())
}

func user(name, sleep, clean, noise, pet, budget, location string) *types.UserProfile {
	return &types.UserProfile{
		ID:                 uuid.New(),
		Name:               name,
		SleepSchedule:      sleep,
		CleanlinessLevel:   clean,
		NoiseTolerance:     noise,
		PetPreference:      pet,
		BudgetRange:        budget,
		LocationPreference: location,
	}
}

func room(number string, floor, capacity int, rent float64) *types.Room {
	return &types.Room{
		ID:          uuid.New(),
		RoomNumber:  number,
		FloorNumber: floor,
		RoomType:    "shared",
		Capacity:    capacity,
		MonthlyRent: rent,
	}
}

func TestAllocateUnknownStrategy(t *testing.T) {
	a := testAllocator(t)
	_, err := a.Allocate(nil, nil, "alphabetical")
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeUnknownStrategy {
		t.Fatalf("expected %s, got %v", apierr.CodeUnknownStrategy, err)
	}
}

func TestCompatibilityGroupSharesRoom(t *testing.T) {
	a := testAllocator(t)

	// Three identical users form one group; the room has capacity for all.
	users := []*types.UserProfile{
		user("a", "night_owl", "clean", "moderate", "no_pets", "$750-1000", ""),
		user("b", "night_owl", "clean", "moderate", "no_pets", "$750-1000", ""),
		user("c", "night_owl", "clean", "moderate", "no_pets", "$750-1000", ""),
	}
	rooms := []*types.Room{room("101", 1, 4, 800)}

	result, err := a.Allocate(users, rooms, StrategyCompatibility)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if result.AllocatedUsers != 3 {
		t.Fatalf("expected 3 allocated, got %d", result.AllocatedUsers)
	}
	for _, rec := range result.Records {
		if !rec.Assigned || rec.Reason != types.ReasonCompatibilityGroup {
			t.Fatalf("expected group assignment, got %+v", rec)
		}
		if *rec.RoomID != rooms[0].ID {
			t.Fatal("group must share the one room")
		}
		if rec.GroupSize != 3 {
			t.Fatalf("expected group size 3, got %d", rec.GroupSize)
		}
	}
}

func TestCompatibilityCapacityNeverExceeded(t *testing.T) {
	a := testAllocator(t)

	users := []*types.UserProfile{
		user("a", "night_owl", "clean", "moderate", "no_pets", "", ""),
		user("b", "night_owl", "clean", "moderate", "no_pets", "", ""),
		user("c", "night_owl", "clean", "moderate", "no_pets", "", ""),
	}
	rooms := []*types.Room{
		room("101", 1, 2, 800),
		room("102", 1, 1, 700),
	}

	result, err := a.Allocate(users, rooms, StrategyCompatibility)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	perRoom := map[uuid.UUID]int{}
	capacity := map[uuid.UUID]int{}
	for _, r := range rooms {
		capacity[r.ID] = r.Capacity
	}
	for _, rec := range result.Records {
		if rec.Assigned {
			perRoom[*rec.RoomID]++
		}
	}
	for id, n := range perRoom {
		if n > capacity[id] {
			t.Fatalf("room %s over capacity: %d > %d", id, n, capacity[id])
		}
	}
}

func TestBudgetFirst(t *testing.T) {
	a := testAllocator(t)

	rich := user("rich", "", "", "", "", "$1500+", "")
	poor := user("poor", "", "", "", "", "Under $500", "")
	rooms := []*types.Room{
		room("201", 2, 2, 450),
		room("202", 2, 2, 900),
	}

	result, err := a.Allocate([]*types.UserProfile{rich, poor}, rooms, StrategyBudget)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	byUser := map[uuid.UUID]types.AllocationRecord{}
	for _, rec := range result.Records {
		byUser[rec.UserID] = rec
	}
	if rec := byUser[poor.ID]; !rec.Assigned || *rec.RoomID != rooms[0].ID {
		t.Fatalf("poor user: expected the cheap room, got %+v", rec)
	}
	if rec := byUser[rich.ID]; !rec.Assigned || *rec.RoomID != rooms[1].ID || rec.Reason != types.ReasonBudgetMatch {
		t.Fatalf("rich user: expected the expensive room, got %+v", rec)
	}
}

func TestBudgetFirstWithdrawsUnaffordableRoom(t *testing.T) {
	a := testAllocator(t)

	// The poorest user cannot afford the only room, so the room is
	// withdrawn rather than offered to the richer user behind them.
	rich := user("rich", "", "", "", "", "$1500+", "")
	poor := user("poor", "", "", "", "", "Under $500", "")
	rooms := []*types.Room{room("201", 2, 2, 900)}

	result, err := a.Allocate([]*types.UserProfile{rich, poor}, rooms, StrategyBudget)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if result.AllocatedUsers != 0 {
		t.Fatalf("expected no allocations, got %d", result.AllocatedUsers)
	}
	for _, rec := range result.Records {
		if rec.Assigned || rec.Reason != types.ReasonBudgetTooLow {
			t.Fatalf("expected budget_too_low for %s, got %+v", rec.UserName, rec)
		}
	}
}

func TestLocationFirstRunsOutOfRooms(t *testing.T) {
	a := testAllocator(t)

	users := []*types.UserProfile{
		user("a", "", "", "", "", "", "downtown"),
		user("b", "", "", "", "", "", "downtown"),
	}
	rooms := []*types.Room{room("301", 3, 2, 800)}

	result, err := a.Allocate(users, rooms, StrategyLocation)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if result.AllocatedUsers != 1 {
		t.Fatalf("expected 1 allocated, got %d", result.AllocatedUsers)
	}
	var sawUnassigned bool
	for _, rec := range result.Records {
		if !rec.Assigned {
			sawUnassigned = true
			if rec.Reason != types.ReasonNoRoomsAvailable {
				t.Fatalf("expected no_rooms_available, got %q", rec.Reason)
			}
		}
	}
	if !sawUnassigned {
		t.Fatal("expected one unassigned user")
	}
}

func TestBalancedDeterministic(t *testing.T) {
	a := testAllocator(t)

	users := []*types.UserProfile{
		user("a", "", "", "", "", "$750-1000", "any"),
		user("b", "", "", "", "", "$750-1000", "any"),
		user("c", "", "", "", "", "Under $500", "2"),
	}
	rooms := []*types.Room{
		room("401", 4, 2, 850),
		room("402", 2, 2, 450),
	}

	first, err := a.Allocate(users, rooms, StrategyBalanced)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	second, err := a.Allocate(users, rooms, StrategyBalanced)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if len(first.Records) != len(second.Records) {
		t.Fatal("record counts differ between runs")
	}
	for i := range first.Records {
		f, s := first.Records[i], second.Records[i]
		if f.UserID != s.UserID || f.Assigned != s.Assigned || f.Reason != s.Reason {
			t.Fatalf("record %d differs: %+v vs %+v", i, f, s)
		}
		if f.Assigned && *f.RoomID != *s.RoomID {
			t.Fatalf("record %d room differs", i)
		}
	}

	for _, rec := range first.Records {
		if rec.Assigned && rec.Reason != types.ReasonBalanced {
			t.Fatalf("expected balanced_allocation reason, got %q", rec.Reason)
		}
	}
}

func TestBalancedStrategyResultShape(t *testing.T) {
	a := testAllocator(t)
	users := []*types.UserProfile{user("solo", "", "", "", "", "", "")}

	result, err := a.Allocate(users, nil, StrategyBalanced)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if result.Strategy != StrategyBalanced || result.TotalUsers != 1 || result.TotalRooms != 0 {
		t.Fatalf("unexpected result shape: %+v", result)
	}
	if result.AllocatedUsers != 0 || result.Records[0].Reason != types.ReasonNoRoomsAvailable {
		t.Fatalf("expected unassigned with no_rooms_available, got %+v", result.Records[0])
	}
	if result.Timestamp.IsZero() {
		t.Fatal("timestamp must be set")
	}
}
