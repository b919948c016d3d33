package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"schemareport/internal/catalog"
	"schemareport/internal/db"
	"schemareport/internal/logger"
)

// listSeparator joins aggregated names inside a single result column.
// The ASCII unit separator is not expected in object or column names.
const listSeparator = "\x1f"

// Tables lists user tables, largest first.
func Tables(ctx context.Context, q db.Querier) ([]catalog.TableInfo, error) {
	rows, err := query(ctx, q, "tables", tablesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []catalog.TableInfo
	for rows.Next() {
		var tab catalog.TableInfo
		var columns sql.NullString
		if err := rows.Scan(&tab.Name, &tab.Schema, &tab.RowCount, &tab.SizeMB, &columns); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		tab.Columns = splitList(columns)
		tables = append(tables, tab)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table rows: %w", err)
	}
	return tables, nil
}

// Procedures lists user stored procedures by name.
// The complexity score is left at zero; it is derived from Definition by the caller.
func Procedures(ctx context.Context, q db.Querier) ([]catalog.ProcedureInfo, error) {
	rows, err := query(ctx, q, "procedures", proceduresQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var procs []catalog.ProcedureInfo
	for rows.Next() {
		var p catalog.ProcedureInfo
		var def sql.NullString
		var deps sql.NullInt64
		if err := rows.Scan(&p.Name, &def, &p.Created, &p.Modified, &deps); err != nil {
			return nil, fmt.Errorf("scan procedure row: %w", err)
		}
		// encrypted procedures come back with a NULL definition
		if !def.Valid {
			logger.Warn("procedure %s has no readable definition, complexity score will be 0", p.Name)
		}
		p.Definition = def.String
		p.DependencyCount = deps.Int64
		procs = append(procs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate procedure rows: %w", err)
	}
	return procs, nil
}

// Indexes lists every non-system index, largest first.
// Indexes that were never used report zero for all usage counters.
func Indexes(ctx context.Context, q db.Querier) ([]catalog.IndexInfo, error) {
	rows, err := query(ctx, q, "indexes", indexesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []catalog.IndexInfo
	for rows.Next() {
		var ix catalog.IndexInfo
		var table, name sql.NullString
		var seeks, scans, lookups, updates sql.NullInt64
		var size sql.NullFloat64
		if err := rows.Scan(&table, &name, &ix.Type, &ix.IsUnique, &ix.IsPrimaryKey,
			&seeks, &scans, &lookups, &updates, &size); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		ix.TableName = table.String
		ix.IndexName = name.String
		ix.Seeks = seeks.Int64
		ix.Scans = scans.Int64
		ix.Lookups = lookups.Int64
		ix.Updates = updates.Int64
		ix.SizeMB = size.Float64
		indexes = append(indexes, ix)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate index rows: %w", err)
	}
	return indexes, nil
}

// ForeignKeys lists one row per foreign key column pair.
func ForeignKeys(ctx context.Context, q db.Querier) ([]catalog.ForeignKeyInfo, error) {
	rows, err := query(ctx, q, "foreign keys", foreignKeysQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []catalog.ForeignKeyInfo
	for rows.Next() {
		var fk catalog.ForeignKeyInfo
		var table, column, refTable, refColumn sql.NullString
		if err := rows.Scan(&table, &column, &refTable, &refColumn, &fk.ConstraintName, &fk.IsDisabled); err != nil {
			return nil, fmt.Errorf("scan foreign key row: %w", err)
		}
		fk.TableName = table.String
		fk.ColumnName = column.String
		fk.ReferencedTable = refTable.String
		fk.ReferencedColumn = refColumn.String
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign key rows: %w", err)
	}
	return fks, nil
}

// TableUsage lists tables referenced by at least one stored procedure, most used first.
func TableUsage(ctx context.Context, q db.Querier) ([]catalog.TableUsageInfo, error) {
	rows, err := query(ctx, q, "table usage", tableUsageQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []catalog.TableUsageInfo
	for rows.Next() {
		var u catalog.TableUsageInfo
		var table, procs sql.NullString
		if err := rows.Scan(&table, &u.ProcedureCount, &procs); err != nil {
			return nil, fmt.Errorf("scan table usage row: %w", err)
		}
		u.TableName = table.String
		u.Procedures = splitList(procs)
		usage = append(usage, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table usage rows: %w", err)
	}
	return usage, nil
}

func query(ctx context.Context, q db.Querier, what, stmt string) (*sql.Rows, error) {
	logger.Debug("query %s", what)
	rows, err := q.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	return rows, nil
}

func splitList(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return nil
	}
	return strings.Split(s.String, listSeparator)
}
