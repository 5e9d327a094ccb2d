package models

// Scale is the numeric grade scale fixed per program. Best and Worst are
// the two ends of the range; Best < Worst means lower grades are better,
// as on the German 1.0 (best) .. 6.0 (worst) scale. Every grade and
// average comparison in the record goes through the program's scale.
type Scale struct {
	Best      float64 `json:"best"`
	Worst     float64 `json:"worst"`
	PassLimit float64 `json:"pass_limit"`
}

// DefaultScale returns the German university scale: 1.0 best, 6.0 worst,
// grades up to 4.0 pass.
func DefaultScale() Scale {
	return Scale{Best: 1.0, Worst: 6.0, PassLimit: 4.0}
}

// LowerIsBetter reports the direction of the scale.
func (s Scale) LowerIsBetter() bool {
	return s.Best < s.Worst
}

// Contains reports whether v lies within the scale range, inclusive.
func (s Scale) Contains(v float64) bool {
	lo, hi := s.Best, s.Worst
	if lo > hi {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

// Passed reports whether v counts as a passing grade.
func (s Scale) Passed(v float64) bool {
	if s.LowerIsBetter() {
		return v <= s.PassLimit
	}
	return v >= s.PassLimit
}

// BetterOrEqual reports whether a is at least as good as b.
func (s Scale) BetterOrEqual(a, b float64) bool {
	if s.LowerIsBetter() {
		return a <= b
	}
	return a >= b
}

// Valid reports whether the scale itself is usable: a non-empty range
// with the pass limit inside it.
func (s Scale) Valid() bool {
	return s.Best != s.Worst && s.Contains(s.PassLimit)
}
