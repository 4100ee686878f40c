package repos

import (
	"context"
	"testing"

	"github.com/yungbote/roomie-backend/internal/data/repos/testutil"
	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/pkg/dbctx"
)

func TestCompatibilityScoreUpsertPair(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCompatibilityScoreRepo(db, testutil.Logger(t))

	u1 := testutil.SeedProfile(t, ctx, tx, "carol")
	u2 := testutil.SeedProfile(t, ctx, tx, "dave")

	if err := repo.UpsertPair(dbc, &types.CompatibilityScore{
		User1ID:    u1.ID,
		User2ID:    u2.ID,
		FinalScore: 0.6,
	}); err != nil {
		t.Fatalf("UpsertPair: %v", err)
	}

	// Writing the reversed pair updates the same row.
	if err := repo.UpsertPair(dbc, &types.CompatibilityScore{
		User1ID:    u2.ID,
		User2ID:    u1.ID,
		FinalScore: 0.9,
	}); err != nil {
		t.Fatalf("UpsertPair (reversed): %v", err)
	}

	row, err := repo.GetPair(dbc, u1.ID, u2.ID)
	if err != nil {
		t.Fatalf("GetPair: %v", err)
	}
	if row == nil {
		t.Fatal("expected a persisted pair row")
	}
	if row.FinalScore != 0.9 {
		t.Fatalf("expected updated score 0.9, got %v", row.FinalScore)
	}
	lo, hi := types.OrderPair(u1.ID, u2.ID)
	if row.User1ID != lo || row.User2ID != hi {
		t.Fatalf("pair not canonicalized: %s, %s", row.User1ID, row.User2ID)
	}

	scores, err := repo.GetByUserID(dbc, u1.ID)
	if err != nil || len(scores) != 1 {
		t.Fatalf("GetByUserID: err=%v len=%d", err, len(scores))
	}
}
