package sqldb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "octosync.db")
	s, err := New(context.Background(), DialectSQLite, dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestNew_SQLite(t *testing.T) {
	s := setupTestStorage(t)

	assert.Equal(t, DialectSQLite, s.Dialect())
	assert.NoError(t, s.Ping(context.Background()))

	// Таблица создана миграцией
	var name string
	err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'records'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "records", name)
}

func TestNew_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "octosync.db")

	s, err := New(ctx, DialectSQLite, dbPath)
	require.NoError(t, err)
	_, err = s.Insert(ctx, "projects", map[string]any{"id": "p-1"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Повторный запуск миграций не должен ломать существующую базу
	s, err = New(ctx, DialectSQLite, dbPath)
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	got, err := s.SelectByID(ctx, "projects", "p-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.ID())
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input   string
		want    Dialect
		wantErr bool
	}{
		{input: "", want: DialectSQLite},
		{input: "sqlite", want: DialectSQLite},
		{input: "SQLite3", want: DialectSQLite},
		{input: "postgres", want: DialectPostgres},
		{input: " postgresql ", want: DialectPostgres},
		{input: "mysql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDialect(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDialect_Rebind(t *testing.T) {
	query := "SELECT data FROM records WHERE collection = ? AND id = ?"

	assert.Equal(t, query, DialectSQLite.rebind(query))
	assert.Equal(t, "SELECT data FROM records WHERE collection = $1 AND id = $2", DialectPostgres.rebind(query))
}
