package slot

import (
	"context"
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationPath = "../../../../migrations/001_init.sql"

// identifierRe имена в нижнем регистре; ключевые слова SQL в запросах пишутся прописными
var identifierRe = regexp.MustCompile(`\b[a-z_][a-z0-9_]*\b`)

// tableColumns колонки таблицы из CREATE TABLE миграции
func tableColumns(t *testing.T, name string) map[string]bool {
	t.Helper()
	raw, err := os.ReadFile(migrationPath)
	require.NoError(t, err)

	sql := string(raw)
	start := strings.Index(sql, "CREATE TABLE IF NOT EXISTS "+name+" (")
	require.NotEqual(t, -1, start, "table %s not found in migration", name)
	end := strings.Index(sql[start:], "\n);")
	require.NotEqual(t, -1, end)

	cols := make(map[string]bool)
	for _, line := range strings.Split(sql[start:start+end], "\n")[1:] {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "--") {
			continue
		}
		// PRIMARY KEY, CONSTRAINT, UNIQUE
		if fields[0] == strings.ToUpper(fields[0]) {
			continue
		}
		cols[fields[0]] = true
	}
	return cols
}

func TestRepository_QueriesMatchMigration(t *testing.T) {
	cols := tableColumns(t, table)

	var (
		mu      sync.Mutex
		queries []string
	)
	matcher := sqlmock.QueryMatcherFunc(func(_, actual string) error {
		mu.Lock()
		defer mu.Unlock()
		queries = append(queries, actual)
		return nil
	})

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	ctx := context.Background()
	key := testKey()
	from := key.Date

	mock.ExpectQuery("get").WillReturnRows(slotRow(3, 1))
	_, err = repo.Get(ctx, key)
	require.NoError(t, err)

	mock.ExpectQuery("list").WillReturnRows(slotRow(3, 1))
	_, err = repo.ListByDate(ctx, key.SubServiceID, key.Date)
	require.NoError(t, err)

	mock.ExpectQuery("dates").WillReturnRows(sqlmock.NewRows([]string{"slot_date"}).AddRow(time.Now()))
	_, err = repo.ListDates(ctx, key.SubServiceID, &from)
	require.NoError(t, err)

	mock.ExpectQuery("reserve").WillReturnRows(slotRow(3, 2))
	_, err = repo.Reserve(ctx, key)
	require.NoError(t, err)

	mock.ExpectQuery("release").WillReturnRows(slotRow(3, 1))
	_, err = repo.Release(ctx, key)
	require.NoError(t, err)

	mock.ExpectQuery("add").WillReturnRows(slotRow(3, 0))
	_, err = repo.Add(ctx, key, 3)
	require.NoError(t, err)

	mock.ExpectQuery("capacity").WillReturnRows(slotRow(5, 1))
	_, err = repo.SetCapacity(ctx, key, 5)
	require.NoError(t, err)

	mock.ExpectQuery("delete").WillReturnRows(slotRow(5, 0))
	_, err = repo.Delete(ctx, key, false)
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
	require.GreaterOrEqual(t, len(queries), 8)

	for _, query := range queries {
		for _, ident := range identifierRe.FindAllString(query, -1) {
			if ident == table {
				continue
			}
			assert.True(t, cols[ident], "column %q is not in %s migration: %s", ident, table, query)
		}
	}
	assert.True(t, cols["id"], "ListByDate orders by insertion id")
	assert.True(t, cols["updated_at"])
}
