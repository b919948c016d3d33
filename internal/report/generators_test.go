package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tableColumns = []string{"table_name", "schema_name", "record_count", "total_space_mb", "column_list"}
	procColumns  = []string{"procedure_name", "procedure_definition", "create_date", "modify_date", "dependency_count"}
	indexColumns = []string{"table_name", "index_name", "index_type", "is_unique", "is_primary_key",
		"user_seeks", "user_scans", "user_lookups", "user_updates", "index_size_mb"}
	fkColumns    = []string{"table_name", "column_name", "reference_table_name", "reference_column_name", "foreign_key_name", "is_disabled"}
	usageColumns = []string{"table_name", "procedure_count", "procedures"}
)

func generatorByOrder(t *testing.T, order int) Generator {
	t.Helper()
	for _, g := range Generators() {
		if g.Order == order {
			return g
		}
	}
	t.Fatalf("no generator with order %d", order)
	return Generator{}
}

func TestGeneratorsOrder(t *testing.T) {
	var files []string
	for i, g := range Generators() {
		assert.Equal(t, i+1, g.Order)
		files = append(files, g.FileName)
	}
	assert.Equal(t, []string{
		"1_TableAnalysis.md",
		"2_StoredProcedureAnalysis.md",
		"3_IndexAnalysis.md",
		"4_TableRelationships.md",
		"5_TableUsageInSPs.md",
	}, files)
}

func TestGeneratorBuild(t *testing.T) {
	created := time.Date(2024, 1, 15, 9, 45, 0, 0, time.UTC)
	modified := time.Date(2024, 11, 2, 17, 5, 0, 0, time.UTC)

	tests := []struct {
		name      string
		order     int
		opts      Options
		setupMock func(mock sqlmock.Sqlmock)
		wantRows  [][]string
	}{
		{
			name:  "table analysis",
			order: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM sys.tables t").WillReturnRows(sqlmock.NewRows(tableColumns).
					AddRow("Orders", "dbo", int64(150), "2.50", "Id (int)\x1fName (varchar(50))").
					AddRow("Log", "audit", int64(0), "0.00", nil))
			},
			wantRows: [][]string{
				{"Orders", "dbo", "150", "2.5", "Id (int), Name (varchar(50))"},
				{"Log", "audit", "0", "0", ""},
			},
		},
		{
			name:  "stored procedure analysis",
			order: 2,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM sys.procedures p").WillReturnRows(sqlmock.NewRows(procColumns).
					AddRow("usp_GetOrders", "SELECT * FROM Orders o JOIN Customers c ON ... CASE WHEN ... END", created, modified, int64(0)).
					AddRow("usp_Secret", nil, created, created, nil))
			},
			wantRows: [][]string{
				{"usp_GetOrders", "1/15/2024", "11/2/2024", "0", "2"},
				{"usp_Secret", "1/15/2024", "1/15/2024", "0", "0"},
			},
		},
		{
			name:  "stored procedure analysis with date layout",
			order: 2,
			opts:  Options{DateLayout: "2006-01-02"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM sys.procedures p").WillReturnRows(sqlmock.NewRows(procColumns).
					AddRow("usp_Loop", "WHILE 1=1 BEGIN DECLARE x CURSOR END", created, modified, int64(4)))
			},
			wantRows: [][]string{
				{"usp_Loop", "2024-01-15", "2024-11-02", "4", "2"},
			},
		},
		{
			name:  "index analysis keeps unused indexes",
			order: 3,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM sys.indexes i").WillReturnRows(sqlmock.NewRows(indexColumns).
					AddRow("Orders", "PK_Orders", "CLUSTERED", true, true, int64(40), int64(2), int64(0), int64(9), "3.25").
					AddRow("Orders", "IX_Orders_Date", "NONCLUSTERED", false, false, nil, nil, nil, nil, "0.50"))
			},
			wantRows: [][]string{
				{"Orders", "PK_Orders", "CLUSTERED", "True", "True", "40", "2", "0", "9", "3.25"},
				{"Orders", "IX_Orders_Date", "NONCLUSTERED", "False", "False", "0", "0", "0", "0", "0.5"},
			},
		},
		{
			name:  "table relationships",
			order: 4,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM sys.foreign_keys f").WillReturnRows(sqlmock.NewRows(fkColumns).
					AddRow("OrderLines", "OrderId", "Orders", "Id", "FK_OrderLines_Orders", false).
					AddRow("Orders", "CustomerId", "Customers", "Id", "FK_Orders_Customers", true))
			},
			wantRows: [][]string{
				{"OrderLines", "OrderId", "Orders", "Id", "FK_OrderLines_Orders", "False"},
				{"Orders", "CustomerId", "Customers", "Id", "FK_Orders_Customers", "True"},
			},
		},
		{
			name:  "table usage",
			order: 5,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM sys.sql_dependencies d").WillReturnRows(sqlmock.NewRows(usageColumns).
					AddRow("Orders", int64(2), "usp_GetOrders\x1fusp_SaveOrder").
					AddRow("Customers", int64(1), "usp_GetOrders"))
			},
			wantRows: [][]string{
				{"Orders", "2", "usp_GetOrders, usp_SaveOrder"},
				{"Customers", "1", "usp_GetOrders"},
			},
		},
		{
			name:  "empty result",
			order: 5,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM sys.sql_dependencies d").WillReturnRows(sqlmock.NewRows(usageColumns))
			},
			wantRows: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setupMock(mock)

			g := generatorByOrder(t, tt.order)
			doc, err := g.Build(context.Background(), db, tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRows, doc.Rows)
			for _, row := range doc.Rows {
				assert.Len(t, row, len(g.Header))
			}

			// one body line per query row, after title, heading, header and separator
			lines := strings.Split(strings.TrimSuffix(doc.Render(), "\n"), "\n")
			assert.Len(t, lines, 6+len(tt.wantRows))
			assert.Equal(t, "# "+g.Title, lines[0])
			assert.Equal(t, "## "+g.Heading, lines[2])
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGeneratorBuildQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	mock.ExpectQuery("FROM sys.indexes i").WillReturnError(assert.AnError)

	_, err = generatorByOrder(t, 3).Build(context.Background(), db, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "index report: query indexes")
}
