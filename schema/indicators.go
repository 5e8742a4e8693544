package schema

// SlopIndicator is a discrete, human-readable unit of evidence. Many
// indicators can share a type; identity for deduplication purposes is the
// (Type, Description) pair.
type SlopIndicator struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// severityRank orders severities for comparisons; unknown values rank lowest.
func severityRank(s Severity) int {
	switch s {
	case HighSeverity:
		return 3
	case MediumSeverity:
		return 2
	case LowSeverity:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is at least as severe as min.
func (s Severity) AtLeast(min Severity) bool {
	return severityRank(s) >= severityRank(min)
}

// DedupeIndicators removes duplicate (type, description) pairs, keeping the
// first occurrence and the original order.
func DedupeIndicators(indicators []SlopIndicator) []SlopIndicator {
	if len(indicators) < 2 {
		return indicators
	}
	type identity struct{ t, d string }
	seen := make(map[identity]struct{}, len(indicators))
	out := make([]SlopIndicator, 0, len(indicators))
	for _, ind := range indicators {
		id := identity{ind.Type, ind.Description}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, ind)
	}
	return out
}

// CountSeverityAtLeast returns how many indicators are at or above min.
func CountSeverityAtLeast(indicators []SlopIndicator, min Severity) int {
	n := 0
	for _, ind := range indicators {
		if ind.Severity.AtLeast(min) {
			n++
		}
	}
	return n
}
