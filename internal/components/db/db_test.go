package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSchema = `create table if not exists kv (k text primary key, v text not null);`

func TestOpenLocal(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "test.db")

	database, err := Config{File: path}.OpenDB(ctx, testSchema)
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	_, err = database.ExecContext(ctx, "insert into kv (k, v) values ('a', 'b')")
	if err != nil {
		t.Fatal(err)
	}
	var v string
	err = database.QueryRowContext(ctx, "select v from kv where k = 'a'").Scan(&v)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "b", v)
}

func TestOpenUnconfigured(t *testing.T) {
	require.False(t, Config{}.Enabled())
	_, err := Config{}.OpenDB(context.Background(), testSchema)
	require.Error(t, err)
}
