package domain

import (
	"fmt"
	"strings"
	"time"
)

// TableCategory is the semantic role inferred from a table name.
type TableCategory string

const (
	CategoryEmployee   TableCategory = "employee"
	CategoryDepartment TableCategory = "department"
	CategorySalary     TableCategory = "salary"
	CategoryProject    TableCategory = "project"
	CategoryRole       TableCategory = "role"
	CategoryAddress    TableCategory = "address"
	CategoryJunction   TableCategory = "junction"
	CategoryOther      TableCategory = "other"
)

type RelationshipKind string

const (
	RelForeignKey    RelationshipKind = "foreign_key"
	RelSelfReference RelationshipKind = "self_reference"
)

type Column struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Nullable   bool    `json:"nullable"`
	PrimaryKey bool    `json:"primary_key"`
	Default    *string `json:"default_value,omitempty"`
}

type Table struct {
	Name     string        `json:"name"`
	Category TableCategory `json:"category"`
	Columns  []Column      `json:"columns"`
	RowCount int           `json:"row_count"`
}

type Relationship struct {
	FromTable  string           `json:"from_table"`
	FromColumn string           `json:"from_column"`
	ToTable    string           `json:"to_table"`
	ToColumn   string           `json:"to_column"`
	Kind       RelationshipKind `json:"relationship_type"`
}

// SchemaDescription is an immutable snapshot supplied by an external
// discovery service. The engine holds at most one active snapshot.
type SchemaDescription struct {
	DatabaseType  string         `json:"database_type"`
	Tables        []Table        `json:"tables"`
	Relationships []Relationship `json:"relationships"`
	TotalTables   int            `json:"total_tables"`
	TotalColumns  int            `json:"total_columns"`
	DiscoveredAt  time.Time      `json:"discovered_at"`
}

var tableCategoryKeywords = map[TableCategory][]string{
	CategoryEmployee:   {"employee", "employees", "emp", "staff", "personnel", "worker"},
	CategoryDepartment: {"department", "departments", "dept", "division", "divisions"},
	CategorySalary:     {"salary", "salaries", "compensation", "pay", "payroll"},
	CategoryProject:    {"project", "projects", "task", "tasks"},
	CategoryRole:       {"role", "roles", "position", "positions", "job"},
	CategoryAddress:    {"address", "addresses", "location", "locations"},
}

// Evaluation order is fixed so that overlapping keywords categorize
// deterministically.
var tableCategoryOrder = []TableCategory{
	CategoryEmployee, CategoryDepartment, CategorySalary,
	CategoryProject, CategoryRole, CategoryAddress,
}

// CategorizeTable infers a table's semantic category from its name.
func CategorizeTable(name string) TableCategory {
	lower := strings.ToLower(name)
	for _, category := range tableCategoryOrder {
		for _, keyword := range tableCategoryKeywords[category] {
			if strings.Contains(lower, keyword) {
				return category
			}
		}
	}
	return CategoryOther
}

// HasTable reports whether the snapshot contains the named table.
func (s *SchemaDescription) HasTable(name string) bool {
	for _, t := range s.Tables {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// Validate checks structural integrity: every relationship must reference
// tables present in the same snapshot. A violation is a configuration
// error from the discovery collaborator and propagates uncaught.
func (s *SchemaDescription) Validate() error {
	if len(s.Tables) == 0 {
		return WrapError(ErrInvalidInput, "validate schema", fmt.Errorf("snapshot has no tables"))
	}
	for _, rel := range s.Relationships {
		if !s.HasTable(rel.FromTable) {
			return WrapError(ErrInvalidInput, "validate schema",
				fmt.Errorf("relationship references unknown table %q", rel.FromTable))
		}
		if !s.HasTable(rel.ToTable) {
			return WrapError(ErrInvalidInput, "validate schema",
				fmt.Errorf("relationship references unknown table %q", rel.ToTable))
		}
	}
	return nil
}

// DemoSchema is the canned snapshot used when no discovery collaborator is
// connected (demo mode and tests).
func DemoSchema() *SchemaDescription {
	tables := []Table{
		{
			Name:     "employees",
			Category: CategoryEmployee,
			Columns: []Column{
				{Name: "emp_id", Type: "INTEGER", PrimaryKey: true},
				{Name: "full_name", Type: "VARCHAR(255)"},
				{Name: "email", Type: "VARCHAR(255)"},
				{Name: "dept_id", Type: "INTEGER", Nullable: true},
				{Name: "position", Type: "VARCHAR(100)", Nullable: true},
				{Name: "salary", Type: "DECIMAL(10,2)", Nullable: true},
				{Name: "hire_date", Type: "DATE", Nullable: true},
				{Name: "manager_id", Type: "INTEGER", Nullable: true},
			},
			RowCount: 245,
		},
		{
			Name:     "departments",
			Category: CategoryDepartment,
			Columns: []Column{
				{Name: "dept_id", Type: "INTEGER", PrimaryKey: true},
				{Name: "dept_name", Type: "VARCHAR(100)"},
				{Name: "manager_id", Type: "INTEGER", Nullable: true},
				{Name: "budget", Type: "DECIMAL(15,2)", Nullable: true},
			},
			RowCount: 12,
		},
		{
			Name:     "projects",
			Category: CategoryProject,
			Columns: []Column{
				{Name: "project_id", Type: "INTEGER", PrimaryKey: true},
				{Name: "project_name", Type: "VARCHAR(200)"},
				{Name: "dept_id", Type: "INTEGER", Nullable: true},
				{Name: "start_date", Type: "DATE", Nullable: true},
				{Name: "end_date", Type: "DATE", Nullable: true},
				{Name: "budget", Type: "DECIMAL(12,2)", Nullable: true},
			},
			RowCount: 34,
		},
		{
			Name:     "employee_projects",
			Category: CategoryJunction,
			Columns: []Column{
				{Name: "emp_id", Type: "INTEGER", PrimaryKey: true},
				{Name: "project_id", Type: "INTEGER", PrimaryKey: true},
				{Name: "role", Type: "VARCHAR(50)", Nullable: true},
				{Name: "hours_allocated", Type: "INTEGER", Nullable: true},
			},
			RowCount: 156,
		},
	}

	relationships := []Relationship{
		{FromTable: "employees", FromColumn: "dept_id", ToTable: "departments", ToColumn: "dept_id", Kind: RelForeignKey},
		{FromTable: "employees", FromColumn: "manager_id", ToTable: "employees", ToColumn: "emp_id", Kind: RelSelfReference},
		{FromTable: "projects", FromColumn: "dept_id", ToTable: "departments", ToColumn: "dept_id", Kind: RelForeignKey},
		{FromTable: "employee_projects", FromColumn: "emp_id", ToTable: "employees", ToColumn: "emp_id", Kind: RelForeignKey},
		{FromTable: "employee_projects", FromColumn: "project_id", ToTable: "projects", ToColumn: "project_id", Kind: RelForeignKey},
	}

	totalColumns := 0
	for _, t := range tables {
		totalColumns += len(t.Columns)
	}

	return &SchemaDescription{
		DatabaseType:  "demo",
		Tables:        tables,
		Relationships: relationships,
		TotalTables:   len(tables),
		TotalColumns:  totalColumns,
		DiscoveredAt:  time.Now().UTC(),
	}
}
