package features

import (
	"math"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/roomie-backend/internal/domain"
)

func newProfile(t *testing.T) *types.UserProfile {
	t.Helper()
	age := 30
	return &types.UserProfile{
		ID:                uuid.New(),
		Name:              "test",
		Age:               &age,
		SleepSchedule:     "night_owl",
		CleanlinessLevel:  "clean",
		NoiseTolerance:    "quiet",
		SocialPreference:  "social",
		PetPreference:     "no_pets",
		SmokingPreference: "non_smoker",
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildLayout(t *testing.T) {
	u := newProfile(t)
	v := Build(u)

	if len(v) != Dim {
		t.Fatalf("expected %d features, got %d", Dim, len(v))
	}
	for j := 0; j < types.EmbeddingDim; j++ {
		if v[j] != 0 {
			t.Fatalf("expected zero embedding block without embedding, got %v at %d", v[j], j)
		}
	}
	if !almostEqual(v[types.EmbeddingDim], 0.3) {
		t.Errorf("age slot: expected 0.3, got %v", v[types.EmbeddingDim])
	}
	want := []float64{1.0, 0.75, 0.25, 0.75}
	for i, w := range want {
		got := v[types.EmbeddingDim+1+i]
		if !almostEqual(got, w) {
			t.Errorf("categorical slot %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestBuildWithEmbedding(t *testing.T) {
	u := newProfile(t)
	emb := make([]float32, types.EmbeddingDim)
	for j := range emb {
		emb[j] = float32(j%5) / 5
	}
	if err := u.SetEmbedding(emb); err != nil {
		t.Fatalf("SetEmbedding: %v", err)
	}

	v := Build(u)
	if len(v) != Dim {
		t.Fatalf("expected %d features, got %d", Dim, len(v))
	}
	for j := 0; j < types.EmbeddingDim; j++ {
		if !almostEqual(v[j], float64(emb[j])) {
			t.Fatalf("embedding slot %d: expected %v, got %v", j, emb[j], v[j])
		}
	}
}

func TestBuildDefaults(t *testing.T) {
	v := Build(&types.UserProfile{ID: uuid.New(), Name: "blank"})
	if len(v) != Dim {
		t.Fatalf("expected %d features, got %d", Dim, len(v))
	}
	// Missing age and unknown categories all land on the midpoint.
	for j := types.EmbeddingDim; j < Dim; j++ {
		if !almostEqual(v[j], 0.5) {
			t.Errorf("slot %d: expected 0.5 default, got %v", j, v[j])
		}
	}
}

func TestCombinePair(t *testing.T) {
	f1 := []float64{1, 2, 3}
	f2 := []float64{4, 1, 3}
	got := CombinePair(f1, f2)

	want := []float64{1, 2, 3, 4, 1, 3, 3, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("slot %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestRuleScoreIdenticalProfiles(t *testing.T) {
	u1 := newProfile(t)
	u2 := newProfile(t)
	if got := RuleScore(u1, u2); !almostEqual(got, 1.0) {
		t.Fatalf("identical profiles: expected 1.0, got %v", got)
	}
}

func TestRuleScoreAdjacentCategories(t *testing.T) {
	u1 := newProfile(t)
	u2 := newProfile(t)
	u2.SleepSchedule = "flexible"      // adjacent credit 0.05
	u2.CleanlinessLevel = "very_clean" // adjacent to clean, 0.05
	u2.NoiseTolerance = "very_tolerant" // distance 3, no credit
	u2.PetPreference = "has_pets"      // no credit

	// base 0.5 + sleep 0.05 + cleanliness 0.05 + social 0.1 + smoking 0.1
	if got := RuleScore(u1, u2); !almostEqual(got, 0.8) {
		t.Fatalf("expected 0.8, got %v", got)
	}
}

func TestRuleScoreSymmetric(t *testing.T) {
	u1 := newProfile(t)
	u2 := newProfile(t)
	u2.SleepSchedule = "flexible"
	u2.CleanlinessLevel = "moderate"
	if RuleScore(u1, u2) != RuleScore(u2, u1) {
		t.Fatal("rule score must be symmetric")
	}
}

func TestGroupCompatible(t *testing.T) {
	u1 := newProfile(t)
	u2 := newProfile(t)
	if !GroupCompatible(u1, u2) {
		t.Fatal("identical profiles should be group compatible")
	}

	u2.SleepSchedule = "early_bird"
	u2.CleanlinessLevel = "very_relaxed"
	u2.NoiseTolerance = "very_tolerant"
	u2.PetPreference = "has_pets"
	if GroupCompatible(u1, u2) {
		t.Fatal("opposite profiles should not be group compatible")
	}
}
