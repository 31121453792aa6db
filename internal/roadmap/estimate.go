package roadmap

// Bounds of an estimated roadmap, in weeks
const (
	MinWeeks = 4
	MaxWeeks = 16
)

// MaxDetailedWeeks is how many leading weeks get a day-by-day plan
const MaxDetailedWeeks = 4

const (
	weeksPerTool  = 2.5
	baselineHours = 10.0
	minPaceFactor = 0.7
	maxPaceFactor = 1.3
	// with no usable hours the slowest pace applies
	zeroHoursPace = maxPaceFactor
)

// EstimateWeeks returns the roadmap length for toolCount tools at hoursPerWeek.
// Fewer hours stretch the plan and more hours compress it, within [MinWeeks, MaxWeeks].
func EstimateWeeks(toolCount int, hoursPerWeek float64) int {
	if toolCount < 0 {
		toolCount = 0
	}
	pace := zeroHoursPace
	if hoursPerWeek > 0 {
		pace = clamp(baselineHours/hoursPerWeek, minPaceFactor, maxPaceFactor)
	}
	weeks := int(float64(toolCount) * weeksPerTool * pace)
	return int(clamp(float64(weeks), MinWeeks, MaxWeeks))
}

// DetailedWeeks returns how many of totalWeeks carry daily plans.
func DetailedWeeks(totalWeeks int) int {
	return max(0, min(MaxDetailedWeeks, totalWeeks))
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
