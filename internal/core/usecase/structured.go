package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/vkuznetsov/askdata/internal/core/domain"
	"github.com/vkuznetsov/askdata/internal/core/ports"
)

// StructuredResult is the typed outcome of structured retrieval: the
// reproducible query expression plus the rows the executor produced.
type StructuredResult struct {
	Template domain.TemplateID
	SQL      string
	Rows     []domain.ResultRow
	Tables   []string
	Warnings []string
}

// sqlTemplate pairs a predicate with a builder. Templates are evaluated in
// slice order and the first match wins, so "average salary by department"
// beats a generic salary listing.
type sqlTemplate struct {
	match func(q string) bool
	build func(q string, limit int) (domain.TemplateID, string)
}

// StructuredRetriever translates classified intent into a schema-aware SQL
// expression and executes it through the pluggable row executor.
type StructuredRetriever struct {
	executor  ports.RowExecutor
	templates []sqlTemplate
	limit     int
}

func NewStructuredRetriever(executor ports.RowExecutor, limit int) *StructuredRetriever {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return &StructuredRetriever{
		executor:  executor,
		templates: queryTemplates(),
		limit:     limit,
	}
}

func queryTemplates() []sqlTemplate {
	return []sqlTemplate{
		{
			match: matchAny("how many employees", "count employees", "total employees"),
			build: func(string, int) (domain.TemplateID, string) {
				return domain.TemplateCountEmployees,
					"SELECT COUNT(*) AS employee_count FROM employees;"
			},
		},
		{
			match: matchAny("average salary", "avg salary"),
			build: func(q string, _ int) (domain.TemplateID, string) {
				if strings.Contains(q, "department") {
					return domain.TemplateAvgSalaryByDept,
						"SELECT d.dept_name, AVG(e.salary) AS avg_salary " +
							"FROM employees e JOIN departments d ON e.dept_id = d.dept_id " +
							"GROUP BY d.dept_name;"
				}
				return domain.TemplateAvgSalary,
					"SELECT AVG(salary) AS average_salary FROM employees;"
			},
		},
		{
			match: matchAny("list employees", "show employees", "all employees"),
			build: func(q string, limit int) (domain.TemplateID, string) {
				if strings.Contains(q, "department") {
					return domain.TemplateListByDept,
						"SELECT e.full_name, e.position, d.dept_name " +
							"FROM employees e JOIN departments d ON e.dept_id = d.dept_id " +
							"ORDER BY d.dept_name, e.full_name;"
				}
				return domain.TemplateListEmployees, fmt.Sprintf(
					"SELECT full_name, position, salary FROM employees ORDER BY full_name LIMIT %d;", limit)
			},
		},
		{
			match: matchAny("highest paid", "top paid"),
			build: func(string, int) (domain.TemplateID, string) {
				return domain.TemplateHighestPaid,
					"SELECT full_name, position, salary FROM employees ORDER BY salary DESC LIMIT 10;"
			},
		},
		{
			match: matchAny("departments"),
			build: func(string, int) (domain.TemplateID, string) {
				return domain.TemplateDepartments,
					"SELECT d.dept_name, COUNT(e.emp_id) AS employee_count, AVG(e.salary) AS avg_salary, d.budget " +
						"FROM departments d LEFT JOIN employees e ON d.dept_id = e.dept_id " +
						"GROUP BY d.dept_name, d.budget;"
			},
		},
		{
			match: func(q string) bool {
				if strings.Contains(q, "hired") && strings.Contains(q, "year") {
					return true
				}
				return matchAny("new employees", "recent hires")(q)
			},
			build: func(string, int) (domain.TemplateID, string) {
				return domain.TemplateRecentHires,
					"SELECT full_name, position, hire_date FROM employees " +
						"WHERE EXTRACT(YEAR FROM hire_date) = EXTRACT(YEAR FROM CURRENT_DATE) " +
						"ORDER BY hire_date DESC;"
			},
		},
	}
}

func matchAny(phrases ...string) func(string) bool {
	return func(q string) bool {
		for _, phrase := range phrases {
			if strings.Contains(q, phrase) {
				return true
			}
		}
		return false
	}
}

// Resolve builds the query expression for the text and executes it.
// It fails when no schema snapshot is connected; the orchestrator surfaces
// that as a degraded response rather than empty rows.
func (r *StructuredRetriever) Resolve(ctx context.Context, text string, schema *domain.SchemaDescription) (*StructuredResult, error) {
	if schema == nil || len(schema.Tables) == 0 {
		return nil, domain.WrapError(domain.ErrSchemaUnavailable, "structured retrieval",
			errors.New("no active schema snapshot"))
	}

	template, sql := r.buildSQL(strings.ToLower(text))

	result := &StructuredResult{
		Template: template,
		SQL:      sql,
		Tables:   ExtractTables(sql),
	}
	for _, table := range result.Tables {
		if !schema.HasTable(table) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("table %q not present in the connected schema", table))
		}
	}

	rows, err := r.executor.Execute(ctx, template, sql)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrievalFailure, "execute structured query", err)
	}
	if len(rows) > r.limit {
		rows = rows[:r.limit]
	}
	result.Rows = rows
	return result, nil
}

func (r *StructuredRetriever) buildSQL(lower string) (domain.TemplateID, string) {
	for _, t := range r.templates {
		if t.match(lower) {
			return t.build(lower, r.limit)
		}
	}
	return domain.TemplateGenericListing, fmt.Sprintf(
		"SELECT full_name, position, dept_id FROM employees LIMIT %d;", r.limit)
}

var tableRefPattern = regexp.MustCompile(`(?i)\b(?:from|join|update|into)\s+([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExtractTables pulls the table identifiers referenced by a query
// expression, de-duplicated in first-seen order. Used for provenance
// metadata only, never for execution planning.
func ExtractTables(sql string) []string {
	seen := make(map[string]struct{})
	var tables []string
	for _, match := range tableRefPattern.FindAllStringSubmatch(sql, -1) {
		name := strings.ToLower(match[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tables = append(tables, name)
	}
	return tables
}
