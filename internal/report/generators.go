package report

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"schemareport/internal/db"
	"schemareport/internal/db/mssql"
)

// shortDate is the en-US short date used when no layout is configured.
const shortDate = "1/2/2006"

// Options tune how cell values are rendered.
type Options struct {
	DateLayout string
}

func (o Options) dateLayout() string {
	if o.DateLayout == "" {
		return shortDate
	}
	return o.DateLayout
}

type buildFunc func(ctx context.Context, q db.Querier, opts Options, doc *Document) error

// Generator produces one numbered report from one catalog query.
type Generator struct {
	Order    int
	Name     string
	FileName string
	Title    string
	Heading  string
	Header   []string
	build    buildFunc
}

// Build runs the generator's query and returns the filled document.
// Rows appear in the order the query returned them.
func (g Generator) Build(ctx context.Context, q db.Querier, opts Options) (Document, error) {
	doc := Document{Title: g.Title, Heading: g.Heading, Header: g.Header}
	if err := g.build(ctx, q, opts, &doc); err != nil {
		return Document{}, fmt.Errorf("%s report: %w", g.Name, err)
	}
	return doc, nil
}

var generators = []Generator{
	{
		Order:    1,
		Name:     "table",
		FileName: "1_TableAnalysis.md",
		Title:    "Table Analysis Report",
		Heading:  "Overview",
		Header:   []string{"Table Name", "Schema", "Row Count", "Size (MB)", "Columns"},
		build:    buildTableAnalysis,
	},
	{
		Order:    2,
		Name:     "stored procedure",
		FileName: "2_StoredProcedureAnalysis.md",
		Title:    "Stored Procedure Analysis Report",
		Heading:  "Overview",
		Header:   []string{"Procedure Name", "Created", "Last Modified", "Dependencies", "Complexity Score"},
		build:    buildProcedureAnalysis,
	},
	{
		Order:    3,
		Name:     "index",
		FileName: "3_IndexAnalysis.md",
		Title:    "Index Analysis Report",
		Heading:  "Overview",
		Header:   []string{"Table Name", "Index Name", "Type", "Unique", "PK", "Seeks", "Scans", "Lookups", "Updates", "Size (MB)"},
		build:    buildIndexAnalysis,
	},
	{
		Order:    4,
		Name:     "relationships",
		FileName: "4_TableRelationships.md",
		Title:    "Table Relationships Analysis",
		Heading:  "Foreign Key Relationships",
		Header:   []string{"Table", "Column", "References Table", "References Column", "FK Name", "Disabled"},
		build:    buildTableRelationships,
	},
	{
		Order:    5,
		Name:     "table usage",
		FileName: "5_TableUsageInSPs.md",
		Title:    "Table Usage in Stored Procedures",
		Heading:  "Overview",
		Header:   []string{"Table Name", "Procedure Count", "Procedures"},
		build:    buildTableUsage,
	},
}

// Generators returns the five report generators in run order.
func Generators() []Generator {
	return slices.Clone(generators)
}

func buildTableAnalysis(ctx context.Context, q db.Querier, _ Options, doc *Document) error {
	tables, err := mssql.Tables(ctx, q)
	if err != nil {
		return err
	}
	for _, t := range tables {
		doc.AddRow(t.Name, t.Schema, formatInt(t.RowCount), formatDecimal(t.SizeMB), strings.Join(t.Columns, ", "))
	}
	return nil
}

func buildProcedureAnalysis(ctx context.Context, q db.Querier, opts Options, doc *Document) error {
	procs, err := mssql.Procedures(ctx, q)
	if err != nil {
		return err
	}
	layout := opts.dateLayout()
	for _, p := range procs {
		p.ComplexityScore = ComplexityScore(p.Definition)
		doc.AddRow(p.Name,
			formatDate(p.Created, layout),
			formatDate(p.Modified, layout),
			formatInt(p.DependencyCount),
			formatInt(int64(p.ComplexityScore)))
	}
	return nil
}

func buildIndexAnalysis(ctx context.Context, q db.Querier, _ Options, doc *Document) error {
	indexes, err := mssql.Indexes(ctx, q)
	if err != nil {
		return err
	}
	for _, ix := range indexes {
		doc.AddRow(ix.TableName, ix.IndexName, ix.Type,
			formatBool(ix.IsUnique), formatBool(ix.IsPrimaryKey),
			formatInt(ix.Seeks), formatInt(ix.Scans), formatInt(ix.Lookups), formatInt(ix.Updates),
			formatDecimal(ix.SizeMB))
	}
	return nil
}

func buildTableRelationships(ctx context.Context, q db.Querier, _ Options, doc *Document) error {
	fks, err := mssql.ForeignKeys(ctx, q)
	if err != nil {
		return err
	}
	for _, fk := range fks {
		doc.AddRow(fk.TableName, fk.ColumnName, fk.ReferencedTable, fk.ReferencedColumn,
			fk.ConstraintName, formatBool(fk.IsDisabled))
	}
	return nil
}

func buildTableUsage(ctx context.Context, q db.Querier, _ Options, doc *Document) error {
	usage, err := mssql.TableUsage(ctx, q)
	if err != nil {
		return err
	}
	for _, u := range usage {
		doc.AddRow(u.TableName, formatInt(u.ProcedureCount), strings.Join(u.Procedures, ", "))
	}
	return nil
}
