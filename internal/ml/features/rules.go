package features

import (
	types "github.com/yungbote/roomie-backend/internal/domain"
)

// RuleScore is the heuristic pairwise compatibility score: base 0.5, full
// credit for exact matches and half credit for adjacent ones (ordinal
// distance <= 1) on the four lifestyle scales, flat credit for pet and
// smoking agreement. Clamped to 1.
func RuleScore(u1, u2 *types.UserProfile) float64 {
	score := 0.5

	if u1.SleepSchedule == u2.SleepSchedule {
		score += 0.1
	} else if u1.SleepSchedule == "flexible" || u2.SleepSchedule == "flexible" {
		score += 0.05
	}

	if u1.CleanlinessLevel == u2.CleanlinessLevel {
		score += 0.1
	} else if absInt(CleanlinessOrdinal(u1.CleanlinessLevel)-CleanlinessOrdinal(u2.CleanlinessLevel)) <= 1 {
		score += 0.05
	}

	if u1.NoiseTolerance == u2.NoiseTolerance {
		score += 0.1
	} else if absInt(NoiseOrdinal(u1.NoiseTolerance)-NoiseOrdinal(u2.NoiseTolerance)) <= 1 {
		score += 0.05
	}

	if u1.SocialPreference == u2.SocialPreference {
		score += 0.1
	} else if absInt(SocialOrdinal(u1.SocialPreference)-SocialOrdinal(u2.SocialPreference)) <= 1 {
		score += 0.05
	}

	if u1.PetPreference == u2.PetPreference {
		score += 0.1
	}
	if u1.SmokingPreference == u2.SmokingPreference {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// GroupCompatible is the room-sharing compatibility test used when forming
// allocation groups. Same exact/adjacent idea as RuleScore with its own
// weights (sleep 0.3, cleanliness 0.3, noise 0.2, pet 0.2), thresholded.
func GroupCompatible(u1, u2 *types.UserProfile) bool {
	var score float64

	if u1.SleepSchedule == u2.SleepSchedule {
		score += 0.3
	} else if u1.SleepSchedule == "flexible" || u2.SleepSchedule == "flexible" {
		score += 0.15
	}

	if u1.CleanlinessLevel == u2.CleanlinessLevel {
		score += 0.3
	} else if absInt(CleanlinessOrdinal(u1.CleanlinessLevel)-CleanlinessOrdinal(u2.CleanlinessLevel)) <= 1 {
		score += 0.15
	}

	if u1.NoiseTolerance == u2.NoiseTolerance {
		score += 0.2
	} else if absInt(NoiseOrdinal(u1.NoiseTolerance)-NoiseOrdinal(u2.NoiseTolerance)) <= 1 {
		score += 0.1
	}

	if u1.PetPreference == u2.PetPreference {
		score += 0.2
	}

	return score >= 0.6
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
