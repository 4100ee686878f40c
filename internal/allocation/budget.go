package allocation

import (
	"regexp"
	"strconv"
	"strings"
)

const defaultBudget = 1000.0

var firstNumber = regexp.MustCompile(`\d+`)

// ParseBudget maps a free-text budget range to a numeric ceiling. Known
// range phrases map to fixed midpoints; otherwise the first embedded
// number wins; otherwise the default.
func ParseBudget(budgetRange string) float64 {
	b := strings.ToLower(budgetRange)
	b = strings.ReplaceAll(b, "$", "")
	b = strings.ReplaceAll(b, ",", "")

	switch {
	case strings.Contains(b, "under"):
		return 500.0
	case strings.Contains(b, "500-750") || strings.Contains(b, "500-800"):
		return 625.0
	case strings.Contains(b, "750-1000") || strings.Contains(b, "800-1000"):
		return 875.0
	case strings.Contains(b, "1000-1500"):
		return 1250.0
	case strings.Contains(b, "1500+") || strings.Contains(b, "over"):
		return 2000.0
	}

	if m := firstNumber.FindString(b); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return v
		}
	}
	return defaultBudget
}
