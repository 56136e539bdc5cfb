package usecase

import (
	"regexp"
	"strings"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

// Classifier maps raw query text to a QueryClass using weighted pattern
// matching. Classification is a pure function of the text and the fixed
// pattern tables below; it never reaches domain.ClassUnknown (the fallback
// keyword check always resolves to structured or unstructured).
type Classifier struct {
	structured   []*regexp.Regexp
	unstructured []*regexp.Regexp
	fallback     []string
}

var structuredIndicators = []string{
	`\bhow many\b`, `\bcount\b`, `\btotal\b`, `\bsum\b`, `\baverage\b`,
	`\blist\b`, `\bshow\b`, `\bfind\b`, `\bget\b`, `\bselect\b`,
	`\bemployees?\b`, `\bdepartments?\b`, `\bsalary\b`, `\bpay\b`,
	`\bhired?\b`, `\bjoined?\b`, `\bworking\b`, `\breports? to\b`,
}

var unstructuredIndicators = []string{
	`\bresume\b`, `\bcv\b`, `\bskills?\b`, `\bexperience\b`,
	`\bqualifications?\b`, `\beducation\b`, `\bcertificates?\b`,
	`\breview\b`, `\bperformance\b`, `\bdocuments?\b`,
}

var fallbackKeywords = []string{"employee", "department", "salary", "count", "list", "show"}

func NewClassifier() *Classifier {
	return &Classifier{
		structured:   compilePatterns(structuredIndicators),
		unstructured: compilePatterns(unstructuredIndicators),
		fallback:     fallbackKeywords,
	}
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Classify is deterministic and side-effect free.
func (c *Classifier) Classify(text string) domain.Classification {
	lower := strings.ToLower(text)

	result := domain.Classification{
		StructuredScore:   countMatches(c.structured, lower),
		UnstructuredScore: countMatches(c.unstructured, lower),
	}

	switch {
	case result.StructuredScore > 0 && result.UnstructuredScore > 0:
		result.Class = domain.ClassHybrid
	case result.StructuredScore > 0:
		result.Class = domain.ClassStructured
	case result.UnstructuredScore > 0:
		result.Class = domain.ClassUnstructured
	default:
		result.Fallback = true
		result.Class = domain.ClassUnstructured
		for _, keyword := range c.fallback {
			if strings.Contains(lower, keyword) {
				result.Class = domain.ClassStructured
				break
			}
		}
	}
	return result
}

func countMatches(patterns []*regexp.Regexp, text string) int {
	score := 0
	for _, p := range patterns {
		if p.MatchString(text) {
			score++
		}
	}
	return score
}
