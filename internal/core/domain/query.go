package domain

import "time"

// QueryClass is the result of classifying a free-text question.
type QueryClass string

const (
	ClassUnknown      QueryClass = "unknown"
	ClassStructured   QueryClass = "structured"
	ClassUnstructured QueryClass = "unstructured"
	ClassHybrid       QueryClass = "hybrid"
)

// Classification carries the matched-pattern counts used for tie-breaking
// and debugging. It is a pure function of the query text.
type Classification struct {
	Class             QueryClass `json:"class"`
	StructuredScore   int        `json:"structured_score"`
	UnstructuredScore int        `json:"unstructured_score"`
	// Fallback marks the zero-indicator path where the class was decided
	// by the secondary keyword check rather than the pattern sets.
	Fallback bool `json:"fallback,omitempty"`
}

type SourceTag string

const (
	SourceDatabase  SourceTag = "database"
	SourceDocuments SourceTag = "documents"
)

// ResultRow is the boundary representation of a single result. Row shape
// varies by classification; typed shapes live behind the strategies.
type ResultRow map[string]any

// TemplateID names a structured query template. Row executors key their
// result shape off it.
type TemplateID string

const (
	TemplateCountEmployees  TemplateID = "count_employees"
	TemplateAvgSalaryByDept TemplateID = "avg_salary_by_department"
	TemplateAvgSalary       TemplateID = "avg_salary"
	TemplateListByDept      TemplateID = "list_employees_by_department"
	TemplateListEmployees   TemplateID = "list_employees"
	TemplateHighestPaid     TemplateID = "highest_paid"
	TemplateDepartments     TemplateID = "department_summary"
	TemplateRecentHires     TemplateID = "recent_hires"
	TemplateGenericListing  TemplateID = "generic_listing"
)

// QueryResponse is the single payload every caller receives, including
// degraded and cache-served responses.
type QueryResponse struct {
	ID               string         `json:"query_id"`
	Query            string         `json:"query"`
	Class            QueryClass     `json:"query_type"`
	GeneratedSQL     string         `json:"sql_query,omitempty"`
	Results          []ResultRow    `json:"results"`
	TotalResults     int            `json:"total_results"`
	Sources          []SourceTag    `json:"sources"`
	Metadata         map[string]any `json:"metadata"`
	CacheHit         bool           `json:"cache_hit"`
	ProcessingTimeMS float64        `json:"processing_time"`
}

// HistoryEntry is the compact append-only record kept per processed query.
type HistoryEntry struct {
	ID               string     `json:"query_id"`
	Query            string     `json:"query"`
	Class            QueryClass `json:"query_type"`
	Timestamp        time.Time  `json:"timestamp"`
	ProcessingTimeMS float64    `json:"processing_time"`
	CacheHit         bool       `json:"cache_hit"`
}
