package scoring

// Verdict is the deployment recommendation derived from the overall
// score and the critical issue count.
type Verdict string

const (
	VerdictNotProductionReady Verdict = "not_production_ready"
	VerdictPoor               Verdict = "poor"
	VerdictFair               Verdict = "fair"
	VerdictGood               Verdict = "good"
	VerdictExcellent          Verdict = "excellent"
)

// Label returns the human-facing recommendation text.
func (v Verdict) Label() string {
	switch v {
	case VerdictNotProductionReady:
		return "Not production ready: fix critical issues first"
	case VerdictPoor:
		return "Poor: major refactor required"
	case VerdictFair:
		return "Fair: significant improvements needed"
	case VerdictGood:
		return "Good: minor improvements, deployable with monitoring"
	case VerdictExcellent:
		return "Excellent: deploy immediately"
	default:
		return string(v)
	}
}

// Classify maps an overall score and critical count to a verdict. The
// critical check runs first and overrides the score band: one critical
// issue makes a 9.5 file not production ready.
func Classify(overall float64, criticalCount int) Verdict {
	if criticalCount > 0 {
		return VerdictNotProductionReady
	}
	switch {
	case overall < 5.0:
		return VerdictPoor
	case overall < 7.0:
		return VerdictFair
	case overall < 9.0:
		return VerdictGood
	default:
		return VerdictExcellent
	}
}

// Stars renders the original tool's five-star rating for a score.
func Stars(overall float64) string {
	switch {
	case overall >= 9.0:
		return "★★★★★"
	case overall >= 7.0:
		return "★★★★☆"
	case overall >= 5.0:
		return "★★★☆☆"
	case overall >= 3.0:
		return "★★☆☆☆"
	default:
		return "★☆☆☆☆"
	}
}
