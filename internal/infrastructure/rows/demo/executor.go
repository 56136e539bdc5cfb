package demo

import (
	"context"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

// Executor serves a fixed demo dataset keyed by query template. The row
// shapes match what each template's SQL would project against the demo
// schema, so the API behaves identically with or without a live database.
type Executor struct{}

func New() *Executor { return &Executor{} }

func (e *Executor) Execute(_ context.Context, template domain.TemplateID, _ string) ([]domain.ResultRow, error) {
	rows, ok := cannedRows[template]
	if !ok {
		rows = cannedRows[domain.TemplateGenericListing]
	}

	out := make([]domain.ResultRow, len(rows))
	for i, row := range rows {
		copied := make(domain.ResultRow, len(row))
		for k, v := range row {
			copied[k] = v
		}
		out[i] = copied
	}
	return out, nil
}

var cannedRows = map[domain.TemplateID][]domain.ResultRow{
	domain.TemplateCountEmployees: {
		{"employee_count": 245},
	},
	domain.TemplateAvgSalaryByDept: {
		{"dept_name": "Engineering", "avg_salary": 95000.00},
		{"dept_name": "Sales", "avg_salary": 75000.00},
		{"dept_name": "HR", "avg_salary": 65000.00},
		{"dept_name": "Marketing", "avg_salary": 70000.00},
	},
	domain.TemplateAvgSalary: {
		{"average_salary": 78500.00},
	},
	domain.TemplateListByDept: {
		{"full_name": "Alice Cooper", "position": "Software Engineer", "dept_name": "Engineering"},
		{"full_name": "Bob Wilson", "position": "DevOps Engineer", "dept_name": "Engineering"},
		{"full_name": "Carol Davis", "position": "Sales Manager", "dept_name": "Sales"},
		{"full_name": "David Miller", "position": "HR Specialist", "dept_name": "HR"},
		{"full_name": "Eve Thompson", "position": "Marketing Coordinator", "dept_name": "Marketing"},
	},
	domain.TemplateHighestPaid: {
		{"full_name": "John Smith", "position": "Senior Engineer", "salary": 120000.00},
		{"full_name": "Sarah Johnson", "position": "Engineering Manager", "salary": 115000.00},
		{"full_name": "Mike Chen", "position": "Principal Architect", "salary": 110000.00},
		{"full_name": "Lisa Wang", "position": "Data Scientist", "salary": 105000.00},
		{"full_name": "David Brown", "position": "Senior Developer", "salary": 100000.00},
	},
	domain.TemplateDepartments: {
		{"dept_name": "Engineering", "employee_count": 98, "avg_salary": 95000.00},
		{"dept_name": "Sales", "employee_count": 54, "avg_salary": 75000.00},
		{"dept_name": "HR", "employee_count": 21, "avg_salary": 65000.00},
		{"dept_name": "Marketing", "employee_count": 32, "avg_salary": 70000.00},
	},
	domain.TemplateRecentHires: {
		{"full_name": "Tom Anderson", "position": "Junior Developer", "hire_date": "2024-08-15"},
		{"full_name": "Jenny Liu", "position": "Product Manager", "hire_date": "2024-07-01"},
		{"full_name": "Mark Rodriguez", "position": "UX Designer", "hire_date": "2024-06-10"},
	},
	domain.TemplateListEmployees: {
		{"full_name": "Alice Cooper", "position": "Software Engineer", "dept_id": 1},
		{"full_name": "Bob Wilson", "position": "DevOps Engineer", "dept_id": 1},
		{"full_name": "Carol Davis", "position": "Sales Manager", "dept_id": 2},
		{"full_name": "David Miller", "position": "HR Specialist", "dept_id": 3},
		{"full_name": "Eve Thompson", "position": "Marketing Coordinator", "dept_id": 4},
	},
	domain.TemplateGenericListing: {
		{"full_name": "Alice Cooper", "position": "Software Engineer", "dept_id": 1},
		{"full_name": "Bob Wilson", "position": "DevOps Engineer", "dept_id": 1},
		{"full_name": "Carol Davis", "position": "Sales Manager", "dept_id": 2},
		{"full_name": "David Miller", "position": "HR Specialist", "dept_id": 3},
		{"full_name": "Eve Thompson", "position": "Marketing Coordinator", "dept_id": 4},
	},
}
