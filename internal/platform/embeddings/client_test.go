package embeddings

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/roomie-backend/internal/domain"
)

func TestLocalClientDeterministic(t *testing.T) {
	c := &localClient{dim: types.EmbeddingDim}
	ctx := context.Background()

	first, err := c.Embed(ctx, []string{"hiking and cooking", "gaming"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	second, err := c.Embed(ctx, []string{"hiking and cooking", "gaming"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if len(first) != 2 || len(first[0]) != types.EmbeddingDim {
		t.Fatalf("unexpected shape: %d x %d", len(first), len(first[0]))
	}
	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatal("local embeddings must be deterministic")
			}
		}
	}
	same := true
	for j := range first[0] {
		if first[0][j] != first[1][j] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different texts must produce different vectors")
	}

	var norm float64
	for _, v := range first[0] {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-3 {
		t.Fatalf("expected unit norm, got %v", math.Sqrt(norm))
	}
}

func TestProfileText(t *testing.T) {
	age := 28
	u := &types.UserProfile{
		ID:            uuid.New(),
		Name:          "Sam",
		Age:           &age,
		Hobbies:       "climbing",
		SleepSchedule: "early_bird",
	}
	got := ProfileText(u)
	for _, want := range []string{"Name: Sam", "Age: 28 years old", "Hobbies and interests: climbing", "Sleep schedule: early_bird"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}

	if got := ProfileText(&types.UserProfile{}); got != "No information available" {
		t.Fatalf("empty profile: got %q", got)
	}
}
