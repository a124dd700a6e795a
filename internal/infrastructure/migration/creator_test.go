package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oscarpiresjunior/pedidos-print-foods/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"add orders table":  "add_orders_table",
		"Add-Orders-Table":  "add_orders_table",
		"add__orders__idx":  "add_orders_idx",
		"   spaces   ":      "spaces",
		"special!@#$chars":  "specialchars",
		"_leading_trailing": "leading_trailing",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeName(in), in)
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000002_create_orders.up.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_create_settings.up.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), nil, 0o644))

	mf, err := CreateMigration(dir, "Add order notes", "free text notes on orders")
	require.NoError(t, err)
	assert.Equal(t, uint(3), mf.Version)
	assert.Equal(t, filepath.Join(dir, "000003_add_order_notes.up.sql"), mf.UpPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add_order_notes")
	assert.Contains(t, string(up), "-- free text notes on orders")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback of add_order_notes")

	_, err = CreateMigration(dir, "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	list, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	for name := range names {
		if m := versionPattern.FindStringSubmatch(name); m != nil {
			assert.True(t, names[m[1]+"_"+m[2]+".down.sql"], "missing down migration for %s", name)
		}
	}
	assert.True(t, names["000001_create_settings.up.sql"])
	assert.True(t, names["000002_create_orders.up.sql"])
}
