package mssql

// Catalog queries against the SQL Server sys.* views.
// Every ORDER BY ends in a unique key so repeated runs return rows in the same order.
// Column types are reported by their base system type; lengths are in characters.

const tablesQuery = `
        SELECT
          t.name AS table_name,
          s.name AS schema_name,
          ISNULL((
            SELECT SUM(p.rows)
            FROM sys.partitions p
            WHERE p.object_id = t.object_id
              AND p.index_id IN (0, 1)
          ), 0) AS record_count,
          CAST(ROUND(ISNULL((
            SELECT SUM(a.total_pages)
            FROM sys.partitions p
            JOIN sys.allocation_units a ON p.partition_id = a.container_id
            WHERE p.object_id = t.object_id
          ), 0) * 8.0 / 1024, 2) AS DECIMAL(10,2)) AS total_space_mb,
          (
            SELECT STRING_AGG(CAST(CONCAT(c.name, ' (', bt.type_name,
                CASE
                  WHEN bt.type_name NOT IN ('varchar', 'nvarchar', 'char', 'nchar') THEN ''
                  WHEN c.max_length = -1 THEN '(max)'
                  WHEN bt.type_name IN ('nvarchar', 'nchar') THEN CONCAT('(', c.max_length / 2, ')')
                  ELSE CONCAT('(', c.max_length, ')')
                END, ')') AS NVARCHAR(MAX)), '` + listSeparator + `') WITHIN GROUP (ORDER BY c.column_id)
            FROM sys.columns c
            LEFT JOIN sys.types tp ON tp.user_type_id = c.system_type_id
            CROSS APPLY (SELECT ISNULL(tp.name, TYPE_NAME(c.user_type_id)) AS type_name) bt
            WHERE c.object_id = t.object_id
          ) AS column_list
        FROM sys.tables t
        JOIN sys.schemas s ON t.schema_id = s.schema_id
        WHERE t.is_ms_shipped = 0
        ORDER BY total_space_mb DESC, schema_name, table_name`

const proceduresQuery = `
        SELECT
          p.name AS procedure_name,
          OBJECT_DEFINITION(p.object_id) AS procedure_definition,
          p.create_date,
          p.modify_date,
          (
            SELECT COUNT(*)
            FROM sys.sql_dependencies d
            WHERE d.object_id = p.object_id
          ) AS dependency_count
        FROM sys.procedures p
        WHERE p.is_ms_shipped = 0
        ORDER BY p.name, p.object_id`

const indexesQuery = `
        SELECT
          OBJECT_NAME(i.object_id) AS table_name,
          i.name AS index_name,
          i.type_desc AS index_type,
          i.is_unique,
          i.is_primary_key,
          ISNULL(usage.user_seeks, 0) AS user_seeks,
          ISNULL(usage.user_scans, 0) AS user_scans,
          ISNULL(usage.user_lookups, 0) AS user_lookups,
          ISNULL(usage.user_updates, 0) AS user_updates,
          CAST(ROUND(SUM(s.used_page_count) * 8.0 / 1024, 2) AS DECIMAL(10,2)) AS index_size_mb
        FROM sys.indexes i
        LEFT JOIN sys.dm_db_index_usage_stats usage
          ON i.object_id = usage.object_id
         AND i.index_id = usage.index_id
         AND usage.database_id = DB_ID()
        JOIN sys.dm_db_partition_stats s
          ON i.object_id = s.object_id
         AND i.index_id = s.index_id
        WHERE OBJECT_SCHEMA_NAME(i.object_id) <> 'sys'
        GROUP BY
          i.object_id,
          i.index_id,
          i.name,
          i.type_desc,
          i.is_unique,
          i.is_primary_key,
          usage.user_seeks,
          usage.user_scans,
          usage.user_lookups,
          usage.user_updates
        ORDER BY index_size_mb DESC, table_name, i.index_id, i.object_id`

const foreignKeysQuery = `
        SELECT
          OBJECT_NAME(f.parent_object_id) AS table_name,
          COL_NAME(fc.parent_object_id, fc.parent_column_id) AS column_name,
          OBJECT_NAME(f.referenced_object_id) AS reference_table_name,
          COL_NAME(fc.referenced_object_id, fc.referenced_column_id) AS reference_column_name,
          f.name AS foreign_key_name,
          f.is_disabled
        FROM sys.foreign_keys f
        JOIN sys.foreign_key_columns fc ON f.object_id = fc.constraint_object_id
        ORDER BY table_name, reference_table_name, foreign_key_name, f.object_id, fc.constraint_column_id`

// Each (table, procedure) pair is counted once even when the procedure touches several columns.
const tableUsageQuery = `
        SELECT
          OBJECT_NAME(u.referenced_major_id) AS table_name,
          COUNT(*) AS procedure_count,
          STRING_AGG(CAST(OBJECT_NAME(u.object_id) AS NVARCHAR(MAX)), '` + listSeparator + `')
            WITHIN GROUP (ORDER BY OBJECT_NAME(u.object_id)) AS procedures
        FROM (
          SELECT DISTINCT d.referenced_major_id, d.object_id
          FROM sys.sql_dependencies d
          JOIN sys.procedures p ON d.object_id = p.object_id
          JOIN sys.tables t ON d.referenced_major_id = t.object_id
          WHERE d.class = 1
        ) u
        GROUP BY u.referenced_major_id
        ORDER BY procedure_count DESC, table_name, u.referenced_major_id`
