package catalog

import "time"

// TableInfo is one user table with its storage footprint and column list.
type TableInfo struct {
	Name     string
	Schema   string
	RowCount int64
	SizeMB   float64
	Columns  []string // "name (type)" or "name (type(len))"
}

// ProcedureInfo is one user stored procedure.
type ProcedureInfo struct {
	Name            string
	Definition      string // empty when encrypted or not visible
	Created         time.Time
	Modified        time.Time
	DependencyCount int64
	ComplexityScore int
}

// IndexInfo is one index with its usage counters since the last statistics reset.
type IndexInfo struct {
	TableName    string
	IndexName    string // empty for heaps
	Type         string
	IsUnique     bool
	IsPrimaryKey bool
	Seeks        int64
	Scans        int64
	Lookups      int64
	Updates      int64
	SizeMB       float64
}

// ForeignKeyInfo is one column pair of a foreign key constraint.
type ForeignKeyInfo struct {
	TableName        string
	ColumnName       string
	ReferencedTable  string
	ReferencedColumn string
	ConstraintName   string
	IsDisabled       bool
}

// TableUsageInfo lists the procedures that depend on a table.
type TableUsageInfo struct {
	TableName      string
	ProcedureCount int64
	Procedures     []string
}
