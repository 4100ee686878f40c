package embeddings

import (
	"fmt"
	"strings"

	types "github.com/yungbote/roomie-backend/internal/domain"
)

// ProfileText assembles the text representation of a profile that gets
// embedded. Hobbies carry the most matching signal, but lifestyle fields
// are included so the vector reflects the whole survey.
func ProfileText(u *types.UserProfile) string {
	var parts []string
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			parts = append(parts, label+": "+value)
		}
	}

	add("Name", u.Name)
	if u.Age != nil {
		parts = append(parts, fmt.Sprintf("Age: %d years old", *u.Age))
	}
	add("Gender", u.Gender)
	add("Occupation", u.Occupation)
	add("Sleep schedule", u.SleepSchedule)
	add("Cleanliness", u.CleanlinessLevel)
	add("Noise tolerance", u.NoiseTolerance)
	add("Social preference", u.SocialPreference)
	add("Hobbies and interests", u.Hobbies)
	add("Dietary restrictions", u.DietaryRestrictions)
	add("Pet preference", u.PetPreference)
	add("Smoking preference", u.SmokingPreference)
	add("Budget range", u.BudgetRange)
	add("Location preference", u.LocationPreference)

	if len(parts) == 0 {
		return "No information available"
	}
	return strings.Join(parts, " | ")
}
