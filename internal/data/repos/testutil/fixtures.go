package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roomie-backend/internal/domain"
)

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.UserProfile {
	tb.Helper()
	age := 25
	u := &types.UserProfile{
		ID:                 uuid.New(),
		Name:               name,
		Age:                &age,
		SleepSchedule:      "night_owl",
		CleanlinessLevel:   "clean",
		NoiseTolerance:     "moderate",
		SocialPreference:   "social",
		Hobbies:            "reading, hiking",
		PetPreference:      "no_pets",
		SmokingPreference:  "non_smoker",
		BudgetRange:        "$750-1000",
		LocationPreference: "any",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return u
}

func SeedProfileWithEmbedding(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.UserProfile {
	tb.Helper()
	u := SeedProfile(tb, ctx, tx, name)
	vec := make([]float32, types.EmbeddingDim)
	for i := range vec {
		vec[i] = float32(i%7) / 7
	}
	if err := u.SetEmbedding(vec); err != nil {
		tb.Fatalf("set embedding: %v", err)
	}
	if err := tx.WithContext(ctx).Save(u).Error; err != nil {
		tb.Fatalf("save embedding: %v", err)
	}
	return u
}

func SeedRoom(tb testing.TB, ctx context.Context, tx *gorm.DB, number string, capacity int, rent float64) *types.Room {
	tb.Helper()
	r := &types.Room{
		ID:          uuid.New(),
		RoomNumber:  number,
		FloorNumber: 1,
		RoomType:    "shared",
		Capacity:    capacity,
		MonthlyRent: rent,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed room: %v", err)
	}
	return r
}

func SeedRooms(tb testing.TB, ctx context.Context, tx *gorm.DB, count int) []*types.Room {
	tb.Helper()
	out := make([]*types.Room, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, SeedRoom(tb, ctx, tx, fmt.Sprintf("T-%s-%d", uuid.New().String()[:8], i), 2, 800))
	}
	return out
}
