package models

// Tier identifies a model capability class. Ordering is meaningful:
// higher tiers are more capable and more expensive, and escalation moves
// strictly upward.
type Tier int

const (
	TierFast Tier = iota
	TierCoder
	TierArchitect
	TierStrategy
)

// HighestTier is the escalation target when a call fails or its output
// fails the confidence check.
const HighestTier = TierStrategy

// String returns the tier's canonical name
func (t Tier) String() string {
	switch t {
	case TierFast:
		return "FAST"
	case TierCoder:
		return "CODER"
	case TierArchitect:
		return "ARCHITECT"
	case TierStrategy:
		return "STRATEGY"
	}
	return "UNKNOWN"
}

// ProducesCode reports whether responses from this tier are expected to
// contain code, which tightens the orchestrator's confidence check.
func (t Tier) ProducesCode() bool {
	return t == TierCoder || t == TierArchitect
}

// AllTiers returns the tiers in ascending capability order
func AllTiers() []Tier {
	return []Tier{TierFast, TierCoder, TierArchitect, TierStrategy}
}

// ParseTier returns the tier matching name, or TierFast and false when
// the name is unknown.
func ParseTier(name string) (Tier, bool) {
	switch name {
	case "FAST", "fast":
		return TierFast, true
	case "CODER", "coder":
		return TierCoder, true
	case "ARCHITECT", "architect":
		return TierArchitect, true
	case "STRATEGY", "strategy":
		return TierStrategy, true
	}
	return TierFast, false
}
