package ml

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/platform/apierr"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// testCorpus builds n profiles with deterministic, varied embeddings.
func testCorpus(t *testing.T, n int) []*types.UserProfile {
	t.Helper()
	sleeps := []string{"early_bird", "night_owl", "flexible"}
	cleans := []string{"very_clean", "clean", "moderate", "relaxed"}
	noises := []string{"very_quiet", "moderate", "very_tolerant"}
	pets := []string{"no_pets", "has_pets"}
	smokes := []string{"non_smoker", "smoker"}

	out := make([]*types.UserProfile, 0, n)
	for i := 0; i < n; i++ {
		age := 20 + i
		u := &types.UserProfile{
			ID:                uuid.New(),
			Name:              "user",
			Age:               &age,
			SleepSchedule:     sleeps[i%len(sleeps)],
			CleanlinessLevel:  cleans[i%len(cleans)],
			NoiseTolerance:    noises[i%len(noises)],
			SocialPreference:  "social",
			PetPreference:     pets[i%len(pets)],
			SmokingPreference: smokes[(i/2)%len(smokes)],
		}
		emb := make([]float32, types.EmbeddingDim)
		for j := range emb {
			emb[j] = float32((i*31+j)%17) / 17
		}
		if err := u.SetEmbedding(emb); err != nil {
			t.Fatalf("SetEmbedding: %v", err)
		}
		out = append(out, u)
	}
	return out
}

func TestTrainInsufficientCorpus(t *testing.T) {
	store := NewStore(testLogger(t), Config{Dir: t.TempDir(), MinCorpus: 10})

	_, err := store.Train(context.Background(), testCorpus(t, 9))
	if err == nil {
		t.Fatal("expected error for small corpus")
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeInsufficientData {
		t.Fatalf("expected %s, got %v", apierr.CodeInsufficientData, err)
	}
	if store.Active() != nil {
		t.Fatal("failed training must not install a bundle")
	}
}

func TestLoadLatestEmptyDir(t *testing.T) {
	store := NewStore(testLogger(t), Config{Dir: t.TempDir()})
	loaded, err := store.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if loaded {
		t.Fatal("expected no bundle from empty dir")
	}
	if store.Active() != nil {
		t.Fatal("no bundle should be installed")
	}
}

func TestTrainPersistLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Dir: dir, MinCorpus: 10, NeighborK: 3, MaxComponents: 8}
	store := NewStore(testLogger(t), cfg)

	report, err := store.Train(context.Background(), testCorpus(t, 12))
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if report.Status != "success" || report.UsersCount != 12 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Generation == "" {
		t.Fatal("report must carry the generation")
	}

	active := store.Active()
	if active == nil {
		t.Fatal("training must install a bundle")
	}
	if active.Scaler == nil || active.Neighbors == nil || active.Reducer == nil || active.Classifier == nil {
		t.Fatalf("incomplete bundle: %+v", active)
	}

	status := store.Status()
	if !status.Trained || !status.Scaler || !status.NeighborIndex || !status.Reducer || !status.Classifier {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.Generation != report.Generation {
		t.Fatalf("status generation %q != report generation %q", status.Generation, report.Generation)
	}

	// A fresh store over the same dir loads the same generation.
	fresh := NewStore(testLogger(t), cfg)
	loaded, err := fresh.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if !loaded {
		t.Fatal("expected persisted bundle to load")
	}
	got := fresh.Active()
	if got == nil || got.Generation != report.Generation {
		t.Fatalf("expected generation %q, got %+v", report.Generation, got)
	}
	if got.Scaler == nil || got.Neighbors == nil || got.Reducer == nil || got.Classifier == nil {
		t.Fatal("loaded bundle incomplete")
	}
	if len(got.Neighbors.IDs) != 12 {
		t.Fatalf("expected 12 indexed users, got %d", len(got.Neighbors.IDs))
	}
}

func TestTrainSecondGenerationWins(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Dir: dir, MinCorpus: 10, NeighborK: 3, MaxComponents: 4}
	store := NewStore(testLogger(t), cfg)

	first, err := store.Train(context.Background(), testCorpus(t, 10))
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	second, err := store.Train(context.Background(), testCorpus(t, 11))
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if second.Generation <= first.Generation {
		t.Fatalf("generations must be increasing: %q then %q", first.Generation, second.Generation)
	}

	fresh := NewStore(testLogger(t), cfg)
	if loaded, err := fresh.LoadLatest(); err != nil || !loaded {
		t.Fatalf("LoadLatest: loaded=%v err=%v", loaded, err)
	}
	if got := fresh.Active().Generation; got != second.Generation {
		t.Fatalf("expected latest generation %q, got %q", second.Generation, got)
	}
}

func TestSplitArtifactName(t *testing.T) {
	kind, gen, ok := splitArtifactName("scaler_20240101T000000.000000000.json")
	if !ok || kind != KindScaler || gen != "20240101T000000.000000000" {
		t.Fatalf("got kind=%q gen=%q ok=%v", kind, gen, ok)
	}
	if _, _, ok := splitArtifactName("notes.txt"); ok {
		t.Fatal("non-artifact files must be skipped")
	}
	if _, _, ok := splitArtifactName("unknown_20240101.json"); ok {
		t.Fatal("unknown kinds must be skipped")
	}
}
