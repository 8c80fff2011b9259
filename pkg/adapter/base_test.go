package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichalMlada/ETL-spacex/pkg/dialect"
)

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		expectErr bool
	}{
		{
			name:      "close with nil DB",
			setupDB:   false,
			expectErr: false,
		},
		{
			name:      "close with open DB",
			setupDB:   true,
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			err := base.Close()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		args      []any
		expectErr bool
		errMsg    string
	}{
		{
			name:      "exec without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "exec success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE launches").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			sql:       "CREATE TABLE launches (id TEXT PRIMARY KEY)",
			expectErr: false,
		},
		{
			name:    "exec with bind args",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO launches").
					WithArgs("5eb87cd9ffd86e000604b32a", "FalconSat").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			sql:       "INSERT INTO launches (id, name) VALUES (?, ?)",
			args:      []any{"5eb87cd9ffd86e000604b32a", "FalconSat"},
			expectErr: false,
		},
		{
			name:    "exec with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			err := base.Exec(ctx, tt.sql, tt.args...)
			if tt.expectErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		args      []any
		expectErr bool
		errMsg    string
	}{
		{
			name:      "query without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "query success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "name"}).
					AddRow("5eb87cd9ffd86e000604b32a", "FalconSat").
					AddRow("5eb87cdaffd86e000604b32b", "DemoSat")
				mock.ExpectQuery("SELECT").WillReturnRows(rows)
			},
			sql:       "SELECT id, name FROM launches",
			expectErr: false,
		},
		{
			name:    "query with bind args",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id"}).
					AddRow("5eb87cd9ffd86e000604b32a")
				mock.ExpectQuery("SELECT id FROM launches").
					WithArgs(true).
					WillReturnRows(rows)
			},
			sql:       "SELECT id FROM launches WHERE success = ?",
			args:      []any{true},
			expectErr: false,
		},
		{
			name:    "query with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INVALID").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			rows, err := base.Query(ctx, tt.sql, tt.args...)
			if tt.expectErr {
				require.Error(t, err)
				assert.Nil(t, rows)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
				assert.NotNil(t, rows)
				defer func() { _ = rows.Close() }()
			}
		})
	}
}

func TestBaseSQLAdapter_Begin(t *testing.T) {
	t.Run("begin without connection", func(t *testing.T) {
		base := &BaseSQLAdapter{}
		tx, err := base.Begin(context.Background())
		require.Error(t, err)
		assert.Nil(t, tx)
		assert.Contains(t, err.Error(), "database connection not established")
	})

	t.Run("begin and commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectCommit()

		base := &BaseSQLAdapter{DB: db}
		tx, err := base.Begin(context.Background())
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin and rollback", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectRollback()

		base := &BaseSQLAdapter{DB: db}
		tx, err := base.Begin(context.Background())
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBaseSQLAdapter_Ping(t *testing.T) {
	t.Run("ping without connection", func(t *testing.T) {
		base := &BaseSQLAdapter{}
		err := base.Ping(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database connection not established")
	})

	t.Run("ping success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectPing()

		base := &BaseSQLAdapter{DB: db}
		assert.NoError(t, base.Ping(context.Background()))
	})

	t.Run("ping failure", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectPing().WillReturnError(assert.AnError)

		base := &BaseSQLAdapter{DB: db}
		assert.Error(t, base.Ping(context.Background()))
	})
}

func TestParseQualifiedName(t *testing.T) {
	pg, ok := dialect.Get("postgres")
	require.True(t, ok)

	tests := []struct {
		name       string
		table      string
		wantSchema string
		wantName   string
	}{
		{"unqualified uses default schema", "launches", "public", "launches"},
		{"qualified", "staging.launches", "staging", "launches"},
		{"child table", "launches_cores", "public", "launches_cores"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, name := ParseQualifiedName(tt.table, pg)
			assert.Equal(t, tt.wantSchema, schema)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestBaseSQLAdapter_ListColumnsCommon(t *testing.T) {
	pg, ok := dialect.Get("postgres")
	require.True(t, ok)

	t.Run("existing table", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		rows := sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
			AddRow("id", "text", "NO", 1).
			AddRow("name", "text", "YES", 2).
			AddRow("success", "boolean", "YES", 3)
		mock.ExpectQuery("FROM information_schema.columns").
			WithArgs("public", "launches").
			WillReturnRows(rows)

		base := &BaseSQLAdapter{DB: db}
		columns, err := base.ListColumnsCommon(context.Background(), "launches", pg)
		require.NoError(t, err)
		require.Len(t, columns, 3)
		assert.Equal(t, "id", columns[0].Name)
		assert.Equal(t, "text", columns[0].Type)
		assert.False(t, columns[0].Nullable)
		assert.Equal(t, "boolean", columns[2].Type)
		assert.True(t, columns[2].Nullable)
	})

	t.Run("missing table reports empty, not error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		rows := sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"})
		mock.ExpectQuery("FROM information_schema.columns").
			WithArgs("public", "no_such_table").
			WillReturnRows(rows)

		base := &BaseSQLAdapter{DB: db}
		columns, err := base.ListColumnsCommon(context.Background(), "no_such_table", pg)
		require.NoError(t, err)
		assert.Empty(t, columns)
	})
}

func TestBaseSQLAdapter_GetTableMetadataCommon(t *testing.T) {
	pg, ok := dialect.Get("postgres")
	require.True(t, ok)

	t.Run("table with rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		cols := sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
			AddRow("id", "text", "NO", 1).
			AddRow("flight_number", "bigint", "YES", 2)
		mock.ExpectQuery("FROM information_schema.columns").
			WithArgs("public", "launches").
			WillReturnRows(cols)
		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(205))

		base := &BaseSQLAdapter{DB: db}
		meta, err := base.GetTableMetadataCommon(context.Background(), "launches", pg)
		require.NoError(t, err)
		assert.Equal(t, "public", meta.Schema)
		assert.Equal(t, "launches", meta.Name)
		assert.Len(t, meta.Columns, 2)
		assert.Equal(t, int64(205), meta.RowCount)
	})

	t.Run("missing table", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		cols := sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"})
		mock.ExpectQuery("FROM information_schema.columns").
			WithArgs("public", "ghosts").
			WillReturnRows(cols)

		base := &BaseSQLAdapter{DB: db}
		_, err = base.GetTableMetadataCommon(context.Background(), "ghosts", pg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}
