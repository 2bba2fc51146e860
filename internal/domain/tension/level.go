package tension

// Level classifies a tension ratio.
type Level string

// Tension levels, from most to least strained.
const (
	LevelCritical Level = "Critique"
	LevelHigh     Level = "Élevée"
	LevelModerate Level = "Modérée"
	LevelLow      Level = "Faible"
)

// LevelOf returns the band a tension ratio falls into.
func LevelOf(t float64) Level {
	switch {
	case t > CriticalThreshold:
		return LevelCritical
	case t > highThreshold:
		return LevelHigh
	case t > moderateThreshold:
		return LevelModerate
	default:
		return LevelLow
	}
}
