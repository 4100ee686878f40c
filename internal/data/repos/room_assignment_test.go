package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/roomie-backend/internal/data/repos/testutil"
	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/pkg/dbctx"
)

func TestRoomAssignmentApplyBatch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	assignments := NewRoomAssignmentRepo(db, testutil.Logger(t))
	rooms := NewRoomRepo(db, testutil.Logger(t))

	u1 := testutil.SeedProfile(t, ctx, tx, "alice")
	u2 := testutil.SeedProfile(t, ctx, tx, "bob")
	r1 := testutil.SeedRoom(t, ctx, tx, "AB-"+uuid.New().String()[:8], 2, 800)
	r2 := testutil.SeedRoom(t, ctx, tx, "AB-"+uuid.New().String()[:8], 1, 600)

	records := []types.AllocationRecord{
		{UserID: u1.ID, RoomID: &r1.ID, Assigned: true, Reason: types.ReasonCompatibilityGroup},
		{UserID: u2.ID, RoomID: &r1.ID, Assigned: true, Reason: types.ReasonCompatibilityGroup},
	}
	if err := assignments.ApplyBatch(dbc, records); err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}

	active, err := assignments.GetActiveByRoomID(dbc, r1.ID)
	if err != nil || len(active) != 2 {
		t.Fatalf("GetActiveByRoomID: err=%v len=%d", err, len(active))
	}
	gotRoom, err := rooms.GetByID(dbc, r1.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !gotRoom.IsOccupied {
		t.Fatal("room with active assignments must be occupied")
	}

	// Re-applying the identical batch must not duplicate rows.
	if err := assignments.ApplyBatch(dbc, records); err != nil {
		t.Fatalf("ApplyBatch (repeat): %v", err)
	}
	active, err = assignments.GetActiveByRoomID(dbc, r1.ID)
	if err != nil || len(active) != 2 {
		t.Fatalf("repeat batch duplicated rows: err=%v len=%d", err, len(active))
	}

	// Moving a user deactivates their previous assignment and refreshes
	// occupancy on both rooms.
	move := []types.AllocationRecord{
		{UserID: u1.ID, RoomID: &r2.ID, Assigned: true, Reason: types.ReasonBalanced},
	}
	if err := assignments.ApplyBatch(dbc, move); err != nil {
		t.Fatalf("ApplyBatch (move): %v", err)
	}
	if a, _ := assignments.GetActiveByUserID(dbc, u1.ID); a == nil || a.RoomID != r2.ID {
		t.Fatalf("expected active assignment in second room, got %+v", a)
	}
	if active, _ = assignments.GetActiveByRoomID(dbc, r1.ID); len(active) != 1 {
		t.Fatalf("first room should keep one resident, got %d", len(active))
	}

	// Removing the last resident frees the room.
	if removed, err := assignments.RemoveActiveByUserID(dbc, u1.ID); err != nil || !removed {
		t.Fatalf("RemoveActiveByUserID: removed=%v err=%v", removed, err)
	}
	gotRoom, err = rooms.GetByID(dbc, r2.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if gotRoom.IsOccupied {
		t.Fatal("room must be freed when its last resident leaves")
	}

	// Removing again reports nothing to remove.
	if removed, err := assignments.RemoveActiveByUserID(dbc, u1.ID); err != nil || removed {
		t.Fatalf("expected no-op removal, removed=%v err=%v", removed, err)
	}
}

func TestUserProfileEmbeddingQueries(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	users := NewUserProfileRepo(db, testutil.Logger(t))

	before, err := users.CountWithEmbeddings(dbc)
	if err != nil {
		t.Fatalf("CountWithEmbeddings: %v", err)
	}

	testutil.SeedProfile(t, ctx, tx, "plain")
	embedded := testutil.SeedProfileWithEmbedding(t, ctx, tx, "embedded")

	after, err := users.CountWithEmbeddings(dbc)
	if err != nil {
		t.Fatalf("CountWithEmbeddings: %v", err)
	}
	if after != before+1 {
		t.Fatalf("expected count +1, got %d -> %d", before, after)
	}

	rows, err := users.GetAllWithEmbeddings(dbc)
	if err != nil {
		t.Fatalf("GetAllWithEmbeddings: %v", err)
	}
	found := false
	for _, row := range rows {
		if row.ID == embedded.ID {
			found = true
			if row.EmbeddingVector() == nil {
				t.Fatal("stored embedding must decode")
			}
		}
	}
	if !found {
		t.Fatal("embedded profile missing from results")
	}
}
