package todo

type WarningLevel string

const (
	LevelLow    WarningLevel = "low"
	LevelMedium WarningLevel = "medium"
	LevelHigh   WarningLevel = "high"
)

// WarningThreshold is the rating below which an approval issues a warning.
const WarningThreshold = 60

// MonthlyPointsCap bounds the monthly warning total shown to users.
const MonthlyPointsCap = 300

var ratingSteps = []struct {
	maxRatio float64
	rating   int
}{
	{0.5, 95},
	{0.75, 85},
	{1.0, 75},
	{1.25, 60},
	{1.5, 45},
	{2.0, 30},
}

// Rate maps actual/target minutes onto the fixed rating scale. It reports
// false when no positive target is known.
func Rate(actualMinutes, targetMinutes int) (int, bool) {
	if targetMinutes <= 0 {
		return 0, false
	}
	ratio := float64(actualMinutes) / float64(targetMinutes)
	for _, step := range ratingSteps {
		if ratio <= step.maxRatio {
			return step.rating, true
		}
	}
	return 15, true
}

// Penalty returns the warning an approval with rating earns, if any.
func Penalty(rating int) (points int, level WarningLevel, ok bool) {
	switch {
	case rating < 30:
		return 100, LevelHigh, true
	case rating < 45:
		return 75, LevelHigh, true
	case rating < WarningThreshold:
		return 50, LevelMedium, true
	}
	return 0, "", false
}

// CapPoints clamps a monthly total for display.
func CapPoints(total int) int {
	if total > MonthlyPointsCap {
		return MonthlyPointsCap
	}
	if total < 0 {
		return 0
	}
	return total
}
