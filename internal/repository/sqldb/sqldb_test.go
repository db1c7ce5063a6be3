package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/shopping-list/internal/apperror"
	"github.com/sakif/shopping-list/internal/model"
	"github.com/sakif/shopping-list/internal/repository"
)

var listAll = repository.ListOptions{}

// newTestDB opens a fresh in-memory database with migrations applied.
// Each test gets its own database, destroyed on cleanup.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(context.Background(), Options{URL: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// steppingClock returns a clock that advances one second per call, so tests
// can tell consecutive writes apart.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func ptr[T any](v T) *T { return &v }

func createList(t *testing.T, db *DB, name string) *model.ShoppingList {
	t.Helper()
	l := &model.ShoppingList{Name: name}
	if err := db.Lists().Create(context.Background(), l); err != nil {
		t.Fatalf("failed to create list: %v", err)
	}
	return l
}

func createItem(t *testing.T, db *DB, listID int64, name string) *model.ShoppingItem {
	t.Helper()
	it := &model.ShoppingItem{Name: name, Quantity: 1, ShoppingListID: listID}
	if err := db.Items().Create(context.Background(), it); err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	return it
}

func TestParseURL(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		url         string
		wantDialect Dialect
		wantDriver  string
		wantErr     bool
	}{
		{name: "memory", url: ":memory:", wantDialect: DialectSQLite, wantDriver: "sqlite"},
		{name: "sqlite scheme", url: "sqlite:///" + filepath.Join(dir, "a", "shop.db"), wantDialect: DialectSQLite, wantDriver: "sqlite"},
		{name: "bare path", url: filepath.Join(dir, "shop.db"), wantDialect: DialectSQLite, wantDriver: "sqlite"},
		{name: "postgres", url: "postgres://u:p@localhost:5432/shop", wantDialect: DialectPostgres, wantDriver: "pgx"},
		{name: "postgresql", url: "postgresql://localhost/shop", wantDialect: DialectPostgres, wantDriver: "pgx"},
		{name: "empty", url: "", wantErr: true},
		{name: "unknown scheme", url: "mysql://localhost/shop", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialect, driver, _, err := parseURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDialect, dialect)
			assert.Equal(t, tt.wantDriver, driver)
		})
	}
}

func TestParseURL_CreatesParentDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	_, _, _, err := parseURL("sqlite:///" + filepath.Join(dir, "shop.db"))
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestParseURL_SQLitePaths(t *testing.T) {
	// Relative paths resolve against the working directory; keep them out of the source tree.
	t.Chdir(t.TempDir())
	abs := filepath.Join(t.TempDir(), "abs", "x.db")

	tests := []struct {
		name     string
		url      string
		wantPath string
	}{
		{name: "four slashes keep an absolute path", url: "sqlite:///" + abs, wantPath: abs},
		{name: "three slashes are relative", url: "sqlite:///rel/x.db", wantPath: "rel/x.db"},
		{name: "three slashes with dot", url: "sqlite:///./shop.db", wantPath: "./shop.db"},
		{name: "two slashes are relative", url: "sqlite://data/shop.db", wantPath: "data/shop.db"},
		{name: "bare path", url: "plain/shop.db", wantPath: "plain/shop.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, dsn, err := parseURL(tt.url)
			require.NoError(t, err)

			path, _, _ := strings.Cut(dsn, "?")
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, filepath.IsAbs(tt.wantPath), filepath.IsAbs(path))

			info, err := os.Stat(filepath.Dir(path))
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestRebind(t *testing.T) {
	pg := &DB{dialect: DialectPostgres}
	lite := &DB{dialect: DialectSQLite}
	query := `UPDATE t SET a = ?, b = ? WHERE id = ?`

	assert.Equal(t, `UPDATE t SET a = $1, b = $2 WHERE id = $3`, pg.rebind(query))
	assert.Equal(t, query, lite.rebind(query))
}

func TestNew_FileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.db")
	ctx := context.Background()

	db, err := New(ctx, Options{URL: "sqlite:///" + path})
	require.NoError(t, err)
	l := &model.ShoppingList{Name: "Hardware"}
	require.NoError(t, db.Lists().Create(ctx, l))
	require.NoError(t, db.Close())

	reopened, err := New(ctx, Options{URL: "sqlite:///" + path})
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	got, err := reopened.Lists().GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hardware", got.Name)
}

func TestMigrations_Applied(t *testing.T) {
	db := newTestDB(t)

	version, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO shopping_lists (name, created_at, updated_at) VALUES ('ghost', ?, ?)`,
			time.Now(), time.Now()); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	lists, err := db.Lists().List(ctx, listAll)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = db.withTx(ctx, func(tx *sql.Tx) error {
			_, _ = tx.ExecContext(ctx,
				`INSERT INTO shopping_lists (name, created_at, updated_at) VALUES ('ghost', ?, ?)`,
				time.Now(), time.Now())
			panic("boom")
		})
	})

	lists, err := db.Lists().List(ctx, listAll)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestForeignKeyRejectsOrphanItem(t *testing.T) {
	db := newTestDB(t)

	err := db.Items().Create(context.Background(), &model.ShoppingItem{
		Name:           "orphan",
		Quantity:       1,
		ShoppingListID: 999,
	})
	assert.Error(t, err)
}

func TestScenario_GroceriesEndToEnd(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	list := createList(t, db, "Groceries")
	assert.Equal(t, int64(1), list.ID)

	item := createItem(t, db, list.ID, "Watermelon")
	assert.Equal(t, int64(1), item.ID)
	assert.Equal(t, 1, item.Quantity)
	assert.False(t, item.IsCompleted)

	toggled, err := db.Items().Toggle(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)

	withItems, err := db.Lists().GetWithItems(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, withItems.Items, 1)
	assert.Equal(t, "Watermelon", withItems.Items[0].Name)
	assert.True(t, withItems.Items[0].IsCompleted)

	require.NoError(t, db.Lists().Delete(ctx, list.ID))

	_, err = db.Items().GetByID(ctx, item.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
