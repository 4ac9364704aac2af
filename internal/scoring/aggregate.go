package scoring

import (
	"cqa/internal/rules"
)

// CategoryScore is one category's computed score with its weight.
type CategoryScore struct {
	Category rules.Category `json:"category"`
	Title    string         `json:"title"`
	Weight   float64        `json:"weight"`
	Score    float64        `json:"score"`
}

// Aggregate computes all six category scores from the issue list. Each
// category starts at the 10.0 baseline and loses the policy deduction
// per issue; deductions are additive, so the result is a pure function
// of the issue multiset, regardless of ordering. Scores are clamped to
// [0, 10] and a category with no issues scores exactly 10.0.
func Aggregate(issues []rules.Issue, p *Policy) []CategoryScore {
	totals := map[rules.Category]float64{}
	for _, issue := range issues {
		totals[issue.Category] += p.Deduction(issue.Category, issue.Severity)
	}

	out := make([]CategoryScore, 0, len(rules.Categories))
	for _, cat := range rules.Categories {
		out = append(out, CategoryScore{
			Category: cat,
			Title:    cat.Title(),
			Weight:   p.Weights[cat],
			Score:    Clamp(10.0 - totals[cat]),
		})
	}
	return out
}

// Overall combines category scores under their weights. Because weights
// sum to 1.0, the result always lies within the convex hull of the
// category scores.
func Overall(scores []CategoryScore) float64 {
	var overall float64
	for _, cs := range scores {
		overall += cs.Score * cs.Weight
	}
	return Clamp(overall)
}

// Clamp bounds a score to [0, 10].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
