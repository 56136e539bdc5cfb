package usecase

import "strings"

const maxSuggestions = 5

// suggestionCatalog is the fixed set of example queries offered to users.
// The help/fallback response reuses it so callers always get actionable
// next steps.
var suggestionCatalog = []string{
	"How many employees do we have?",
	"Show me all employees in Engineering",
	"What is the average salary by department?",
	"List the highest paid employees",
	"Who was hired this year?",
	"Show me all departments",
	"Find employees with Python skills",
	"Show me performance reviews for engineers",
	"List all projects in the Marketing department",
	"What is the total budget for each department?",
}

// Suggestions filters the catalog by substring or word overlap with the
// partial input. When nothing matches it returns the catalog head, so the
// result is never empty.
func Suggestions(partial string) []string {
	lower := strings.ToLower(strings.TrimSpace(partial))
	if lower == "" {
		return append([]string(nil), suggestionCatalog[:maxSuggestions]...)
	}

	words := strings.Fields(lower)
	var out []string
	for _, candidate := range suggestionCatalog {
		if len(out) == maxSuggestions {
			break
		}
		candidateLower := strings.ToLower(candidate)
		if strings.Contains(candidateLower, lower) || hasWordOverlap(candidateLower, words) {
			out = append(out, candidate)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), suggestionCatalog[:maxSuggestions]...)
	}
	return out
}

func hasWordOverlap(candidate string, words []string) bool {
	for _, word := range words {
		if strings.Contains(candidate, word) {
			return true
		}
	}
	return false
}
