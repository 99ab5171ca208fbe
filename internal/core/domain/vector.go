package domain

// Axis names one of the six ideological dimensions shared by actor
// fingerprints and decision impact vectors.
type Axis string

const (
	AxisEconomic      Axis = "economic"
	AxisValues        Axis = "values"
	AxisEnvironmental Axis = "environmental"
	AxisRegional      Axis = "regional"
	AxisInternational Axis = "international"
	AxisSecurity      Axis = "security"
)

// Axes lists every axis in a stable order.
func Axes() []Axis {
	return []Axis{
		AxisEconomic,
		AxisValues,
		AxisEnvironmental,
		AxisRegional,
		AxisInternational,
		AxisSecurity,
	}
}

// IdeologyVector is a six-axis position, each component in [-1, 1].
// Positive/negative poles per axis: market/state, liberal/conservative,
// green/growth, urban/rural, open/national, civil/security.
type IdeologyVector struct {
	Economic      float64 `json:"economic"`
	Values        float64 `json:"values"`
	Environmental float64 `json:"environmental"`
	Regional      float64 `json:"regional"`
	International float64 `json:"international"`
	Security      float64 `json:"security"`
}

// Value returns the component for an axis. Unknown axes return 0.
func (v IdeologyVector) Value(axis Axis) float64 {
	switch axis {
	case AxisEconomic:
		return v.Economic
	case AxisValues:
		return v.Values
	case AxisEnvironmental:
		return v.Environmental
	case AxisRegional:
		return v.Regional
	case AxisInternational:
		return v.International
	case AxisSecurity:
		return v.Security
	}
	return 0
}

// Clamped returns a copy with every component forced into [-1, 1].
func (v IdeologyVector) Clamped() IdeologyVector {
	return IdeologyVector{
		Economic:      clamp(v.Economic),
		Values:        clamp(v.Values),
		Environmental: clamp(v.Environmental),
		Regional:      clamp(v.Regional),
		International: clamp(v.International),
		Security:      clamp(v.Security),
	}
}

// InRange reports whether every component already lies in [-1, 1].
func (v IdeologyVector) InRange() bool {
	for _, axis := range Axes() {
		val := v.Value(axis)
		if val < -1 || val > 1 {
			return false
		}
	}
	return true
}

func clamp(f float64) float64 {
	if f < -1 {
		return -1
	}
	if f > 1 {
		return 1
	}
	return f
}
